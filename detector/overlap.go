package detector

import "sort"

// FilterOverlapping drops detections whose box overlaps an already accepted
// higher-confidence box beyond the IoU threshold: when the runtime reports
// two boxes for the same physical object, the highest confidence wins.
// The sort key is confidence desc, then label, then box coordinates, so the
// outcome is deterministic even for equal confidences.
func FilterOverlapping(detections []Detection, iouThreshold float64) []Detection {
	if len(detections) == 0 {
		return nil
	}

	sorted := make([]Detection, len(detections))
	copy(sorted, detections)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.Label != b.Label {
			return a.Label < b.Label
		}
		if a.Box.X != b.Box.X {
			return a.Box.X < b.Box.X
		}
		return a.Box.Y < b.Box.Y
	})

	kept := make([]Detection, 0, len(sorted))
	for _, det := range sorted {
		overlapping := false
		for _, acc := range kept {
			if det.Box.IoU(acc.Box) > iouThreshold {
				overlapping = true
				break
			}
		}
		if !overlapping {
			kept = append(kept, det)
		}
	}
	return kept
}

// FilterByConfidence drops detections below the threshold.
func FilterByConfidence(detections []Detection, threshold float64) []Detection {
	kept := make([]Detection, 0, len(detections))
	for _, det := range detections {
		if det.Confidence >= threshold {
			kept = append(kept, det)
		}
	}
	return kept
}
