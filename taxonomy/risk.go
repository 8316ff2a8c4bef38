package taxonomy

// baseRisk holds per-category environmental risk on a 1-5 scale. Categories
// with refrigerants or CRT glass sit at the top.
var baseRisk = map[string]int{
	"TV":              4,
	"Monitor":         4,
	"Komponen Kulkas": 5,
	"AC":              5,
	"Handphone":       4,
	"Laptop":          4,
	"Baterai Laptop":  4,
	"Komponen CPU":    3,
	"Printer":         3,
	"Lampu":           3,
	"Keyboard":        2,
	"Mouse":           2,
	"Remot":           2,
}

// RiskLevel returns the disposal risk for a category on a 1-5 scale.
// Low-confidence detections are bumped one level since the item may be
// something more hazardous than the detector believes.
func RiskLevel(category string, confidence float64) int {
	risk, ok := baseRisk[category]
	if !ok {
		risk = 3
	}
	if confidence < 0.5 && risk < 5 {
		risk++
	}
	return risk
}

// Suggestions returns disposal guidance for a risk level.
func Suggestions(risk int) []string {
	if risk >= 4 {
		return []string{
			"Jangan membongkar sendiri, komponen mengandung bahan berbahaya",
			"Lepas baterai dan hapus data pribadi sebelum diserahkan",
			"Bawa ke pusat daur ulang e-waste bersertifikat",
		}
	}
	return []string{
		"Periksa panduan disposal dari manufacturer",
		"Pisahkan komponen yang masih bisa digunakan ulang",
		"Bawa ke pusat daur ulang e-waste terdekat",
	}
}
