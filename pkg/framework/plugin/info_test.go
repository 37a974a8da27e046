package plugin

import (
	"testing"
)

func TestUIDGeneration(t *testing.T) {
	tests := []struct {
		name     string
		pluginID string
	}{
		{"reverse domain ID", "com.mycompany.newplugin"},
		{"another plugin", "com.mycompany.anotherplugin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := &Info{ID: tt.pluginID}

			if info.UID() != info.UID() {
				t.Errorf("UID generation is not deterministic for %s", tt.pluginID)
			}
			if err := info.ValidateUID(); err != nil {
				t.Errorf("UID validation failed for %s: %v", tt.pluginID, err)
			}
		})
	}
}

func TestUIDUniqueness(t *testing.T) {
	plugins := []string{
		"com.company1.plugin1",
		"com.company1.plugin2",
		"com.company2.plugin1",
		"com.different.name",
	}

	uids := make(map[[16]byte]string)
	for _, pluginID := range plugins {
		uid := Info{ID: pluginID}.UID()
		if existingID, exists := uids[uid]; exists {
			t.Errorf("UID collision between %s and %s", pluginID, existingID)
		}
		uids[uid] = pluginID
	}
}

func TestUIDCaseInsensitive(t *testing.T) {
	if (Info{ID: "com.Example.Plugin"}).UID() != (Info{ID: "com.example.plugin"}).UID() {
		t.Error("UID should not depend on ID case")
	}
}

func TestUIDValidation(t *testing.T) {
	tests := []struct {
		name    string
		info    Info
		wantErr bool
	}{
		{"Valid plugin ID", Info{ID: "com.example.plugin"}, false},
		{"Empty plugin ID", Info{ID: ""}, true},
		{"Blank plugin ID", Info{ID: "   "}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.info.ValidateUID()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUID() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
