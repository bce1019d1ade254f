package avr

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var fwPath = flag.String("fwpath", "", "directory containing firmware fixture JSON files")

// fixtureCase describes one external AVR firmware fixture: a flash image
// plus initial register/IO state, a tick count to run the Executor for,
// and the expected final state.
type fixtureCase struct {
	Name        string  `json:"name"`
	Flash       []byte  `json:"flash"`
	Ticks       int     `json:"ticks"`
	InitialRegs [32]int `json:"initial_regs"`
	InitialIO   [64]int `json:"initial_io"`
	InitialPC   uint16  `json:"initial_pc"`
	FinalRegs   [32]int `json:"final_regs"`
	FinalIO     [64]int `json:"final_io"`
	FinalPC     uint16  `json:"final_pc"`
}

func runFixture(t *testing.T, fc *fixtureCase) {
	t.Helper()

	m, err := NewMemory(1500, fc.Flash)
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	for i, v := range fc.InitialRegs {
		m.SetRegister(uint8(i), uint8(v))
	}
	for i, v := range fc.InitialIO {
		m.SetIO(uint8(i), uint8(v))
	}
	m.SetPC(fc.InitialPC)

	exec := NewExecutor(m)
	for i := 0; i < fc.Ticks; i++ {
		exec.NotifyRisingEdge()
		exec.Run()
		if exec.Halted() {
			t.Fatalf("executor halted after %d ticks: %v", i, exec.Err())
		}
	}

	for i, want := range fc.FinalRegs {
		if got := m.GetRegister(uint8(i)); int(got) != want {
			t.Errorf("R%d = %d, want %d", i, got, want)
		}
	}
	for i, want := range fc.FinalIO {
		if got := m.GetIO(uint8(i)); int(got) != want {
			t.Errorf("IO[%d] = %d, want %d", i, got, want)
		}
	}
	if got := m.PC(); got != fc.FinalPC {
		t.Errorf("PC = %d, want %d", got, fc.FinalPC)
	}
}

// TestFixtureRunner runs every *.json fixture file under -fwpath. It is
// skipped entirely when the flag is not provided, matching the
// external-fixture-directory pattern used for the instruction-level
// conformance suite this core was validated against during development.
func TestFixtureRunner(t *testing.T) {
	if *fwPath == "" {
		t.Skip("no -fwpath provided")
	}

	entries, err := os.ReadDir(*fwPath)
	if err != nil {
		t.Fatalf("reading fwpath: %v", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		fname := entry.Name()
		t.Run(fname, func(t *testing.T) {
			t.Parallel()

			data, err := os.ReadFile(filepath.Join(*fwPath, fname))
			if err != nil {
				t.Fatalf("reading %s: %v", fname, err)
			}

			var cases []fixtureCase
			if err := json.Unmarshal(data, &cases); err != nil {
				t.Fatalf("parsing %s: %v", fname, err)
			}

			for i := range cases {
				fc := &cases[i]
				t.Run(fc.Name, func(t *testing.T) {
					runFixture(t, fc)
				})
			}
		})
	}
}
