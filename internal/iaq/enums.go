package iaq

import "slices"

// Room is the room the survey describes. It never affects scoring.
type Room string

const (
	RoomBedroom    Room = "bedroom"
	RoomLivingRoom Room = "living_room"
	RoomKitchen    Room = "kitchen"
	RoomBathroom   Room = "bathroom"
	RoomOther      Room = "other"
)

// Ventilation is the strongest ventilation present in the room.
type Ventilation string

const (
	VentilationNone       Ventilation = "none"
	VentilationWindowOnly Ventilation = "window_only"
	VentilationFan        Ventilation = "fan"
	VentilationMechanical Ventilation = "mechanical"
	VentilationHRVERV     Ventilation = "hrv_erv"
)

// DryingFrequency is how often clothes are dried indoors.
type DryingFrequency string

const (
	DryingNever     DryingFrequency = "never"
	DryingSometimes DryingFrequency = "sometimes"
	DryingOften     DryingFrequency = "often"
)

// CookingFuel is the fuel used for cooking in or near the room.
type CookingFuel string

const (
	CookingNone     CookingFuel = "none"
	CookingElectric CookingFuel = "electric"
	CookingGas      CookingFuel = "gas"
)

// HeatingType is the main heating source. The zero value means the
// question was not asked.
type HeatingType string

const (
	HeatingNone              HeatingType = "none"
	HeatingPortableGasHeater HeatingType = "portable_gas_heater"
	HeatingHeatPump          HeatingType = "heat_pump"
	HeatingElectric          HeatingType = "electric"
	HeatingWoodBurner        HeatingType = "wood_burner"
)

// InsulationStatus is the occupant's view of the building insulation. The
// zero value means the question was not asked.
type InsulationStatus string

const (
	InsulationGood    InsulationStatus = "good"
	InsulationPartial InsulationStatus = "partial"
	InsulationPoor    InsulationStatus = "poor"
	InsulationUnknown InsulationStatus = "unknown"
)

var (
	roomValues        = []Room{RoomBedroom, RoomLivingRoom, RoomKitchen, RoomBathroom, RoomOther}
	ventilationValues = []Ventilation{VentilationNone, VentilationWindowOnly, VentilationFan, VentilationMechanical, VentilationHRVERV}
	dryingValues      = []DryingFrequency{DryingNever, DryingSometimes, DryingOften}
	cookingValues     = []CookingFuel{CookingNone, CookingElectric, CookingGas}
	heatingValues     = []HeatingType{HeatingNone, HeatingPortableGasHeater, HeatingHeatPump, HeatingElectric, HeatingWoodBurner}
	insulationValues  = []InsulationStatus{InsulationGood, InsulationPartial, InsulationPoor, InsulationUnknown}
)

func (r Room) Valid() bool             { return slices.Contains(roomValues, r) }
func (v Ventilation) Valid() bool      { return slices.Contains(ventilationValues, v) }
func (d DryingFrequency) Valid() bool  { return slices.Contains(dryingValues, d) }
func (c CookingFuel) Valid() bool      { return slices.Contains(cookingValues, c) }
func (h HeatingType) Valid() bool      { return slices.Contains(heatingValues, h) }
func (i InsulationStatus) Valid() bool { return slices.Contains(insulationValues, i) }

// RoomValues returns the accepted room codes in display order.
func RoomValues() []Room { return append([]Room(nil), roomValues...) }

// VentilationValues returns the accepted ventilation codes in display order.
func VentilationValues() []Ventilation { return append([]Ventilation(nil), ventilationValues...) }

// DryingValues returns the accepted drying frequency codes.
func DryingValues() []DryingFrequency { return append([]DryingFrequency(nil), dryingValues...) }

// CookingValues returns the accepted cooking fuel codes.
func CookingValues() []CookingFuel { return append([]CookingFuel(nil), cookingValues...) }

// HeatingValues returns the accepted heating codes.
func HeatingValues() []HeatingType { return append([]HeatingType(nil), heatingValues...) }

// InsulationValues returns the accepted insulation codes.
func InsulationValues() []InsulationStatus {
	return append([]InsulationStatus(nil), insulationValues...)
}
