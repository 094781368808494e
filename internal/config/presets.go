package config

import "sort"

var ljBody = BodyConfig{
	Order: 2, Degree: 6, Transform: "inv(1,2)", Cutoff: "cos(2,2.5)",
	Tuples: [][]int{{6, 0}, {3, 0}}, Coeffs: []float64{2, -2},
}

var morseBody = BodyConfig{
	Order: 2, Degree: 2, Transform: "morse(1,4)", Cutoff: "sw(1.8,2.4)",
	Tuples: [][]int{{2, 0}, {1, 0}}, Coeffs: []float64{0.5, -1},
}

var defaultMD = MDConfig{Dt: DefaultDt, Steps: DefaultSteps, Mass: DefaultMass, Temperature: DefaultTemperature, Every: DefaultEvery}

// Presets are grouped by the highest body order they use.
var Presets = map[string]map[string]*Config{
	"pair": {
		"lj": {
			Name: "lj", Bodies: []BodyConfig{ljBody},
			Lattice: LatticeConfig{Kind: "fcc", A: 1.55, Reps: [3]int{3, 3, 3}},
			MD:      defaultMD, Seed: 1,
		},
		"lj-hot": {
			Name: "lj-hot", Bodies: []BodyConfig{ljBody},
			Lattice: LatticeConfig{Kind: "fcc", A: 1.6, Reps: [3]int{3, 3, 3}, Rattle: 0.02},
			MD:      MDConfig{Dt: 0.002, Steps: 2000, Mass: 1, Temperature: 0.8, Every: 20},
			Seed:    2,
		},
		"morse": {
			Name: "morse", Bodies: []BodyConfig{morseBody},
			Lattice: LatticeConfig{Kind: "fcc", A: 1.41, Reps: [3]int{3, 3, 3}},
			MD:      defaultMD, Seed: 1,
		},
	},
	"manybody": {
		"morse3": {
			Name: "morse3",
			Bodies: []BodyConfig{
				morseBody,
				{Order: 3, Degree: 4, Transform: "exp(1,2)", Cutoff: "sw(1.2,1.8)", Scale: 0.005},
			},
			Lattice: LatticeConfig{Kind: "fcc", A: 1.41, Reps: [3]int{2, 2, 2}, Rattle: 0.01},
			MD:      defaultMD, Seed: 3,
		},
		"morse4": {
			Name: "morse4",
			Bodies: []BodyConfig{
				morseBody,
				{Order: 3, Degree: 4, Transform: "exp(1,2)", Cutoff: "sw(1.2,1.8)", Scale: 0.005},
				{Order: 4, Degree: 3, Transform: "inv(1,1)", Cutoff: "sw(1.0,1.5)", Scale: 0.002},
			},
			Lattice: LatticeConfig{Kind: "fcc", A: 1.41, Reps: [3]int{2, 2, 2}, Rattle: 0.01},
			MD:      defaultMD, Seed: 4,
		},
	},
	"cluster": {
		"trimer": {
			Name: "trimer",
			E0:   -1,
			Bodies: []BodyConfig{
				morseBody,
				{Order: 3, Degree: 5, Transform: "exp(1,2)", Cutoff: "cos(2,3)", Scale: 0.01},
			},
			Lattice: LatticeConfig{Kind: "trimer", A: 1.0},
			MD:      MDConfig{Dt: 0.002, Steps: 5000, Mass: 1, Temperature: 0.05, Every: 50},
			Seed:    5,
		},
	},
}

func GetPreset(group, preset string) *Config {
	groupPresets, ok := Presets[group]
	if !ok {
		return nil
	}
	cfg, ok := groupPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(group string) []string {
	groupPresets, ok := Presets[group]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(groupPresets))
	for name := range groupPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ListGroups() []string {
	groups := make([]string, 0, len(Presets))
	for g := range Presets {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}
