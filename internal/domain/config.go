package domain

// KeyPrefix namespaces every key symptomd writes to the database.
const KeyPrefix = "symptomd:"

// ServingConfig holds the prediction policy knobs shared by the service and the SDK.
type ServingConfig struct {
	ModelPath      string
	DefaultDisease string
}

// DefaultServingConfig returns the settings used when nothing is configured.
func DefaultServingConfig() ServingConfig {
	return ServingConfig{
		ModelPath:      "model/model.json",
		DefaultDisease: "Common Cold",
	}
}
