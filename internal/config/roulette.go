package config

type Color string

const (
	Red   Color = "red"
	Black Color = "black"
	Green Color = "green"
)

type RouletteConfig struct {
	Colors []RouletteColorConfig
}

type RouletteColorConfig struct {
	Color      Color
	Weight     float64
	Multiplier float64
	Numbers    []int
}

// RouletteWheelConfig is the three-color wheel: weights drive the
// provably fair pick, Numbers are the slots shown for the winning color.
var RouletteWheelConfig = RouletteConfig{
	Colors: []RouletteColorConfig{
		{
			Color:      Red,
			Weight:     46.6,
			Multiplier: 2,
			Numbers:    []int{1, 2, 3, 4, 5, 6, 7},
		},
		{
			Color:      Black,
			Weight:     46.6,
			Multiplier: 2,
			Numbers:    []int{8, 9, 10, 11, 12, 13, 14},
		},
		{
			Color:      Green,
			Weight:     6.8,
			Multiplier: 14,
			Numbers:    []int{0},
		},
	},
}
