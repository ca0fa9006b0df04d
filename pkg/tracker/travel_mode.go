package tracker

type TravelMode string

const (
	TravelModeWalking TravelMode = "WALKING"
	TravelModeTransit TravelMode = "TRANSIT"
)

type VehicleType string

const (
	VehicleTypeBus  VehicleType = "BUS"
	VehicleTypeTram VehicleType = "TRAM"
)
