package unit

import (
	"math"

	"github.com/quanta-xyz/go-quanta/dim"
)

// catalog is the standard unit table. Scale converts one of the named unit
// into the SI base unit for its dimension; Offset is nonzero only for the
// affine temperature scales.
var catalog = []Unit{
	// Length (base: meter)
	{Name: "meter", Sig: dim.Base(dim.Length), Scale: 1},
	{Name: "millimeter", Sig: dim.Base(dim.Length), Scale: 1e-3},
	{Name: "centimeter", Sig: dim.Base(dim.Length), Scale: 1e-2},
	{Name: "kilometer", Sig: dim.Base(dim.Length), Scale: 1e3},
	{Name: "micrometer", Sig: dim.Base(dim.Length), Scale: 1e-6},
	{Name: "inch", Sig: dim.Base(dim.Length), Scale: 0.0254},
	{Name: "foot", Sig: dim.Base(dim.Length), Scale: 0.3048},
	{Name: "yard", Sig: dim.Base(dim.Length), Scale: 0.9144},
	{Name: "mile", Sig: dim.Base(dim.Length), Scale: 1609.344},

	// Mass (base: kilogram)
	{Name: "kilogram", Sig: dim.Base(dim.Mass), Scale: 1},
	{Name: "gram", Sig: dim.Base(dim.Mass), Scale: 1e-3},
	{Name: "milligram", Sig: dim.Base(dim.Mass), Scale: 1e-6},
	{Name: "tonne", Sig: dim.Base(dim.Mass), Scale: 1e3},
	{Name: "pound", Sig: dim.Base(dim.Mass), Scale: 0.45359237},
	{Name: "ounce", Sig: dim.Base(dim.Mass), Scale: 0.028349523125},

	// Time (base: second)
	{Name: "second", Sig: dim.Base(dim.Time), Scale: 1},
	{Name: "millisecond", Sig: dim.Base(dim.Time), Scale: 1e-3},
	{Name: "minute", Sig: dim.Base(dim.Time), Scale: 60},
	{Name: "hour", Sig: dim.Base(dim.Time), Scale: 3600},
	{Name: "day", Sig: dim.Base(dim.Time), Scale: 86400},

	// Temperature (base: kelvin). Celsius and Fahrenheit are affine.
	{Name: "kelvin", Sig: dim.Base(dim.Temperature), Scale: 1},
	{Name: "celsius", Sig: dim.Base(dim.Temperature), Scale: 1, Offset: 273.15},
	{Name: "fahrenheit", Sig: dim.Base(dim.Temperature), Scale: 5.0 / 9.0, Offset: 459.67 * 5.0 / 9.0},
	{Name: "rankine", Sig: dim.Base(dim.Temperature), Scale: 5.0 / 9.0},

	// Electric current (base: ampere)
	{Name: "ampere", Sig: dim.Base(dim.Current), Scale: 1},
	{Name: "milliampere", Sig: dim.Base(dim.Current), Scale: 1e-3},

	// Amount of substance (base: mole)
	{Name: "mole", Sig: dim.Base(dim.Substance), Scale: 1},

	// Luminous intensity (base: candela)
	{Name: "candela", Sig: dim.Base(dim.Luminosity), Scale: 1},

	// Angle (base: radian)
	{Name: "radian", Sig: dim.Base(dim.Angle), Scale: 1},
	{Name: "degree", Sig: dim.Base(dim.Angle), Scale: math.Pi / 180},

	// Area (base: square meter)
	{Name: "square_meter", Sig: dim.Area, Scale: 1},
	{Name: "square_millimeter", Sig: dim.Area, Scale: 1e-6},
	{Name: "square_centimeter", Sig: dim.Area, Scale: 1e-4},
	{Name: "square_inch", Sig: dim.Area, Scale: 0.0254 * 0.0254},

	// Volume (base: cubic meter)
	{Name: "cubic_meter", Sig: dim.Volume, Scale: 1},
	{Name: "liter", Sig: dim.Volume, Scale: 1e-3},
	{Name: "milliliter", Sig: dim.Volume, Scale: 1e-6},

	// Velocity (base: meter per second)
	{Name: "meter_per_second", Sig: dim.Velocity, Scale: 1},
	{Name: "kilometer_per_hour", Sig: dim.Velocity, Scale: 1000.0 / 3600.0},
	{Name: "foot_per_second", Sig: dim.Velocity, Scale: 0.3048},

	// Acceleration (base: meter per second squared)
	{Name: "meter_per_second_squared", Sig: dim.Acceleration, Scale: 1},
	{Name: "standard_gravity", Sig: dim.Acceleration, Scale: 9.80665},

	// Frequency (base: hertz)
	{Name: "hertz", Sig: dim.Frequency, Scale: 1},
	{Name: "kilohertz", Sig: dim.Frequency, Scale: 1e3},

	// Force (base: newton)
	{Name: "newton", Sig: dim.Force, Scale: 1},
	{Name: "kilonewton", Sig: dim.Force, Scale: 1e3},
	{Name: "pound_force", Sig: dim.Force, Scale: 4.4482216152605},

	// Pressure (base: pascal)
	{Name: "pascal", Sig: dim.Pressure, Scale: 1},
	{Name: "kilopascal", Sig: dim.Pressure, Scale: 1e3},
	{Name: "megapascal", Sig: dim.Pressure, Scale: 1e6},
	{Name: "gigapascal", Sig: dim.Pressure, Scale: 1e9},
	{Name: "bar", Sig: dim.Pressure, Scale: 1e5},
	{Name: "atmosphere", Sig: dim.Pressure, Scale: 101325},
	{Name: "psi", Sig: dim.Pressure, Scale: 6894.757293168361},

	// Energy (base: joule)
	{Name: "joule", Sig: dim.Energy, Scale: 1},
	{Name: "kilojoule", Sig: dim.Energy, Scale: 1e3},
	{Name: "calorie", Sig: dim.Energy, Scale: 4.184},
	{Name: "kilowatt_hour", Sig: dim.Energy, Scale: 3.6e6},

	// Power (base: watt)
	{Name: "watt", Sig: dim.Power, Scale: 1},
	{Name: "kilowatt", Sig: dim.Power, Scale: 1e3},
	{Name: "horsepower", Sig: dim.Power, Scale: 745.69987158227022},

	// Dimensionless
	{Name: "dimensionless", Sig: dim.Dimensionless, Scale: 1},
	{Name: "percent", Sig: dim.Dimensionless, Scale: 0.01},
}
