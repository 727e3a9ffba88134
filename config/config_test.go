package config

import "testing"

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	cfg.Input = "in.obj"
	cfg.Output = "out.binvox"

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() (with input/output set) failed Validate: %v", err)
	}
}

func TestValidateRejectsMissingFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*VoxelizationArgs)
	}{
		{"missing input", func(a *VoxelizationArgs) { a.Input = "" }},
		{"missing output", func(a *VoxelizationArgs) { a.Output = "" }},
		{"zero resolution", func(a *VoxelizationArgs) { a.Resolution = 0 }},
		{"bad strategy", func(a *VoxelizationArgs) { a.Strategy = "NOPE" }},
		{"bad format", func(a *VoxelizationArgs) { a.Format = "NOPE" }},
		{"bad texture mode", func(a *VoxelizationArgs) { a.Texture = "NOPE" }},
		{"bad permutation", func(a *VoxelizationArgs) { a.Permutation = "abc" }},
		{"negative downscale", func(a *VoxelizationArgs) { a.Downscale = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Input = "in.obj"
			cfg.Output = "out.binvox"
			tt.mutate(cfg)

			if err := cfg.Validate(); err == nil {
				t.Errorf("Validate() = nil, want an error for %s", tt.name)
			}
		})
	}
}
