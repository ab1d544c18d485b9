package solver

import (
	"encoding/json"
	"testing"
)

func TestUnmarshalSolver(t *testing.T) {
	tests := []struct {
		data string
		want Type
	}{
		{`{"Type": "Vanilla", "Config": {"StepSize": 0.01, "Batch": 1}}`, Vanilla},
		{`{"Type": "Adam", "Config": {"StepSize": 0.001, "Epsilon": 1e-8,
			"Beta1": 0.9, "Beta2": 0.999, "Batch": 1}}`, Adam},
		{`{"Type": "RMSProp", "Config": {"StepSize": 0.001, "Epsilon": 1e-8,
			"Rho": 0.9, "Batch": 1}}`, RMSProp},
	}

	for _, test := range tests {
		var s Solver
		if err := json.Unmarshal([]byte(test.data), &s); err != nil {
			t.Fatalf("unmarshal %v: %v", test.want, err)
		}
		if s.Type != test.want {
			t.Errorf("type: want(%v) have(%v)", test.want, s.Type)
		}
		if s.Solver == nil {
			t.Errorf("%v: gorgonia solver not created", test.want)
		}
		if !s.Config.ValidType(test.want) {
			t.Errorf("%v: config %T has the wrong type", test.want, s.Config)
		}
	}
}

func TestUnmarshalInvalidSolver(t *testing.T) {
	tests := []string{
		`{"Type": "Nesterov", "Config": {"StepSize": 0.01, "Batch": 1}}`,
		`{"Config": {"StepSize": 0.01, "Batch": 1}}`,
		`{"Type": "Vanilla", "Config": {"StepSize": -1, "Batch": 1}}`,
		`{"Type": "Vanilla", "Config": {"StepSize": 0.1, "Batch": 0}}`,
	}

	for _, data := range tests {
		var s Solver
		if err := json.Unmarshal([]byte(data), &s); err == nil {
			t.Errorf("unmarshal %s: want error", data)
		}
	}
}

func TestRoundTripConfig(t *testing.T) {
	s, err := NewVanilla(0.1, 2, 5)
	if err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}

	var decoded Solver
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Config.(VanillaConfig) != s.Config.(VanillaConfig) {
		t.Errorf("config: want(%+v) have(%+v)", s.Config, decoded.Config)
	}
}
