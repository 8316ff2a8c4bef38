// Package taxonomy holds the fixed category domain shared by the detector,
// the validator and the price model: the detector's class labels, the price
// categories they map onto, and the condition attributes used for pricing.
package taxonomy

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnmappedLabel is returned when a detector class label has no price
// category. The caller records the detection as unclassifiable instead of
// failing the whole request.
var ErrUnmappedLabel = errors.New("no price category for label")

// labelToCategory maps the detector's class labels to price categories.
// The detector knows 77 classes, the price model 38 categories, so several
// labels share a category.
var labelToCategory = map[string]string{
	// Computing
	"Computer-Keyboard":   "Keyboard",
	"Electronic-Keyboard": "Keyboard",
	"Computer-Mouse":      "Mouse",
	"Desktop-PC":          "Komponen CPU",
	"Server":              "Komponen CPU",
	"PCB":                 "Komponen CPU",
	"HDD":                 "Hardisk",
	"SSD":                 "Hardisk",
	"USB-Flash-Drive":     "Flashdisk",
	"Laptop":              "Laptop",

	// Displays
	"Flat-Panel-Monitor":        "Monitor",
	"CRT-Monitor":               "Monitor",
	"Digital-Oscilloscope":      "Monitor",
	"Patient-Monitoring-System": "Monitor",
	"Projector":                 "Monitor",
	"Flat-Panel-TV":             "TV",
	"CRT-TV":                    "TV",
	"TV-Remote-Control":         "Remot",

	// Mobile
	"Smartphone":  "Handphone",
	"Bar-Phone":   "Handphone",
	"Tablet":      "Handphone",
	"Smart-Watch": "Jam Tangan",
	"Camera":      "Camera",

	// Consoles
	"PlayStation-5": "PS2",
	"Xbox-Series-X": "PS2",

	// Audio
	"Speaker":         "Speaker",
	"Headphone":       "Speaker",
	"Music-Player":    "Speaker",
	"Electric-Guitar": "Speaker",

	// Power
	"Power-Adapter": "Adaptor /Kilo",
	"Battery":       "Baterai Laptop",

	// Kitchen
	"Microwave":      "Microwave",
	"Coffee-Machine": "Oven",
	"Oven":           "Oven",
	"Toaster":        "Oven",
	"Stove":          "Kompor Listrik",

	// Cooling
	"Refrigerator":        "Komponen Kulkas",
	"Freezer":             "Komponen Kulkas",
	"Cooled-Dispenser":    "Komponen Kulkas",
	"Non-Cooled-Dispenser": "Komponen Kulkas",
	"Cooling-Display":     "Komponen Kulkas",

	// Home
	"Clothes-Iron":   "Seterika",
	"Boiler":         "Kompor Listrik",
	"Hair-Dryer":     "Hair Dryer",
	"Rotary-Mower":   "Kipas",
	"Soldering-Iron": "Solder",
	"Vacuum-Cleaner": "Vacum Cleaner",
	"Washing-Machine": "Mesin Cuci",
	"Dishwasher":     "Mesin Cuci",
	"Tumble-Dryer":   "Mesin Cuci",

	// Air control
	"Ceiling-Fan":     "Kipas",
	"Floor-Fan":       "Kipas",
	"Exhaust-Fan":     "Kipas",
	"Range-Hood":      "Kipas",
	"Air-Conditioner": "AC",
	"Dehumidifier":    "AC",

	// Office
	"Printer":    "Printer",
	"Calculator": "Alat Tes Vol",

	// Networking
	"Router":         "Router",
	"Network-Switch": "Router",

	// Lighting
	"LED-Bulb":                         "Lampu",
	"Table-Lamp":                       "Lampu",
	"Straight-Tube-Fluorescent-Lamp":   "Lampu",
	"Compact-Fluorescent-Lamps":        "Lampu",
	"Christmas-Lights":                 "Lampu",
	"Street-Lamp":                      "Lampu",
	"Neon-Sign":                        "Neon Box",

	// Health
	"Blood-Pressure-Monitor":      "Alat Tensi",
	"Electrocardiograph-Machine":  "Monitor",
	"Glucose-Meter":               "Alat Tes Vol",
	"Pulse-Oximeter":              "Alat Tes Vol",

	// Others
	"Drone":              "Kipas",
	"Electric-Bicycle":   "Aki Motor",
	"Photovoltaic-Panel": "Panel Surya",
	"Telephone-Set":      "Telefon",
	"Flashlight":         "Senter",
	"Smoke-Detector":     "Monitor",
}

// priceCategories is the fixed set of categories the price model was trained
// on. The /categories endpoint and the validator's correction vocabulary both
// come from here.
var priceCategories = map[string]bool{
	"AC": true, "Adaptor /Kilo": true, "Aki Motor": true, "Alat Tensi": true,
	"Alat Tes Vol": true, "Baterai Laptop": true, "CPU Intel": true,
	"Camera": true, "Flashdisk": true, "Hair Dryer": true, "Handphone": true,
	"Hardisk": true, "Jam Tangan": true, "Keyboard": true, "Kipas": true,
	"Komponen CPU": true, "Komponen Kulkas": true, "Kompor Listrik": true,
	"Lampu": true, "Laptop": true, "Mesin Cuci": true, "Microwave": true,
	"Monitor": true, "Mouse": true, "Neon Box": true, "Oven": true,
	"Panel Surya": true, "Printer": true, "PS2": true, "Remot": true,
	"Router": true, "Senter": true, "Seterika": true, "Solder": true,
	"Speaker": true, "TV": true, "Telefon": true, "Vacum Cleaner": true,
}

// CategoryFor maps a detector class label to its price category.
func CategoryFor(label string) (string, error) {
	c, ok := labelToCategory[label]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnmappedLabel, label)
	}
	return c, nil
}

// IsPriceCategory reports whether category is in the price model's domain.
func IsPriceCategory(category string) bool {
	return priceCategories[category]
}

// Categories returns the fixed price category list in sorted order. The
// order is stable across calls so API consumers can rely on it.
func Categories() []string {
	out := make([]string, 0, len(priceCategories))
	for c := range priceCategories {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Labels returns the sorted detector class labels known to the mapper.
func Labels() []string {
	out := make([]string, 0, len(labelToCategory))
	for l := range labelToCategory {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
