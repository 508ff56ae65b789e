package sim

import "fmt"

// VehicleControl is the open-loop control triple applied to a vehicle.
// The server keeps applying the most recent control until superseded.
// Fields not represented here take server-side defaults.
type VehicleControl struct {
	Throttle float32 `json:"throttle"` // [0, 1]
	Steer    float32 `json:"steer"`    // [-1, 1]
	Brake    float32 `json:"brake"`    // [0, 1]
}

// Validate checks that every field is within its legal range.
func (c VehicleControl) Validate() error {
	if c.Throttle < 0 || c.Throttle > 1 {
		return fmt.Errorf("throttle %v out of range [0,1]", c.Throttle)
	}
	if c.Brake < 0 || c.Brake > 1 {
		return fmt.Errorf("brake %v out of range [0,1]", c.Brake)
	}
	if c.Steer < -1 || c.Steer > 1 {
		return fmt.Errorf("steer %v out of range [-1,1]", c.Steer)
	}
	return nil
}
