package domain

// Direction records which picker currently holds the home region.
// Outbound means home (UAE) -> international; Inbound is the reverse.
type Direction string

const (
	Outbound Direction = "outbound"
	Inbound  Direction = "inbound"
)

// Swap returns the opposite direction. The zero value swaps to Inbound,
// since an unset direction is Outbound.
func (d Direction) Swap() Direction {
	if d == Inbound {
		return Outbound
	}
	return Inbound
}

// IsOutbound reports whether d is Outbound. The zero value counts as Outbound.
func (d Direction) IsOutbound() bool {
	return d != Inbound
}

// PickerOptions lists the airports offered by the From and To pickers.
type PickerOptions struct {
	Direction Direction
	From      []Airport
	To        []Airport
}

// Pickers decides which reference list populates each picker for d.
func Pickers(d Direction, data AirportData) PickerOptions {
	home := append([]Airport{}, data.UAEAirports...)
	away := data.DestinationCities.Flatten()
	if d.IsOutbound() {
		return PickerOptions{Direction: Outbound, From: home, To: away}
	}
	return PickerOptions{Direction: Inbound, From: away, To: home}
}
