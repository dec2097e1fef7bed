package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-quicktest/qt"
	"go.uber.org/zap/zaptest"

	"github.com/antithesishq/pforeign-go/foreign"
	"github.com/antithesishq/pforeign-go/machine"
	"github.com/antithesishq/pforeign-go/prt"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{EnvSeed, EnvTraceOutput, EnvReplay, EnvMaxChoices} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(nil)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(*cfg, Config{}))
}

func TestLoadFlags(t *testing.T) {
	clearEnv(t)
	cfg, err := Load([]string{"-seed", "42", "-trace", "out.trace", "-max-choices", "9"})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(*cfg, Config{Seed: 42, SeedSet: true, TracePath: "out.trace", MaxChoices: 9}))
}

func TestLoadRejectsBadSeed(t *testing.T) {
	clearEnv(t)
	_, err := Load([]string{"-seed", "nope"})
	qt.Assert(t, qt.IsNotNil(err))
}

func TestEnvOverrides(t *testing.T) {
	tests := []struct {
		name     string
		envKey   string
		envValue string
		want     Config
		wantErr  string
	}{
		{"seed", EnvSeed, "7", Config{Seed: 7, SeedSet: true, MaxChoices: 3}, ""},
		{"bad seed", EnvSeed, "12x", Config{}, `PFOREIGN_SEED="12x": .*invalid syntax`},
		{"trace", EnvTraceOutput, "t.jsonl", Config{TracePath: "t.jsonl", MaxChoices: 3}, ""},
		{"replay", EnvReplay, "r.jsonl", Config{ReplayPath: "r.jsonl", MaxChoices: 3}, ""},
		{"max choices", EnvMaxChoices, "100", Config{MaxChoices: 100}, ""},
		{"negative max choices", EnvMaxChoices, "-1", Config{}, `PFOREIGN_MAX_CHOICES="-1": must not be negative`},
		{"bad max choices", EnvMaxChoices, "ten", Config{}, `PFOREIGN_MAX_CHOICES="ten": .*invalid syntax`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.envKey, tt.envValue)
			cfg, err := Load([]string{"-max-choices", "3"})
			if tt.wantErr != "" {
				qt.Assert(t, qt.ErrorMatches(err, tt.wantErr))
				return
			}
			qt.Assert(t, qt.IsNil(err))
			qt.Assert(t, qt.DeepEquals(*cfg, tt.want))
		})
	}
}

func TestSessionRecordsThenReplays(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "run.trace")
	logger := zaptest.NewLogger(t)

	rec := &Config{Seed: 5, SeedSet: true, TracePath: path}
	s, err := rec.Open(logger)
	qt.Assert(t, qt.IsNil(err))
	client, server := s.NewChooser("Client"), s.NewChooser("Server")
	var want []prt.Int
	for i := 0; i < 10; i++ {
		for _, m := range []foreign.Machine{client, server} {
			v, err := foreign.ChooseRandomNode(prt.Int(i+2), m)
			qt.Assert(t, qt.IsNil(err))
			want = append(want, v)
		}
	}
	qt.Assert(t, qt.IsNil(s.Close()))

	rep := &Config{ReplayPath: path}
	s, err = rep.Open(logger)
	qt.Assert(t, qt.IsNil(err))
	defer s.Close()
	client, server = s.NewChooser("Client"), s.NewChooser("Server")
	var got []prt.Int
	for i := 0; i < 10; i++ {
		for _, m := range []foreign.Machine{client, server} {
			v, err := foreign.ChooseRandomNode(prt.Int(i+2), m)
			qt.Assert(t, qt.IsNil(err))
			got = append(got, v)
		}
	}
	qt.Assert(t, qt.DeepEquals(got, want))
}

func TestEmptyReplayTraceNeverFallsBackToRandom(t *testing.T) {
	for _, content := range []string{"", "\n  \n"} {
		path := filepath.Join(t.TempDir(), "empty.trace")
		qt.Assert(t, qt.IsNil(os.WriteFile(path, []byte(content), 0644)))

		cfg := &Config{ReplayPath: path}
		s, err := cfg.Open(zaptest.NewLogger(t))
		qt.Assert(t, qt.IsNil(err))

		_, err = s.NewChooser("Client").TryRandomInt(10)
		qt.Assert(t, qt.ErrorIs(err, machine.ErrReplayExhausted))
		qt.Assert(t, qt.IsNil(s.Close()))
	}
}

func TestOpenMissingReplay(t *testing.T) {
	cfg := &Config{ReplayPath: filepath.Join(t.TempDir(), "missing")}
	_, err := cfg.Open(nil)
	qt.Assert(t, qt.ErrorMatches(err, `loading replay: .*`))
}
