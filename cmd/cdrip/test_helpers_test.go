package main

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"cdrip/internal/config"
	"cdrip/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) cliTestEnv {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	return cliTestEnv{cfg: cfg, configPath: testsupport.WriteConfigFile(t, cfg)}
}

// withCdparanoia stubs cdparanoia with the recorded full disc output and
// hides every other scanner.
func withCdparanoia(t *testing.T) testsupport.ConfigOption {
	t.Helper()
	return testsupport.WithStubbedBinaries(map[string]string{"cdparanoia": loadCdparanoiaFixture(t)})
}

func loadCdparanoiaFixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("../../internal/disc/testdata/cdparanoia.txt")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return string(data)
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func runJSON(t *testing.T, env cliTestEnv, v any, args ...string) {
	t.Helper()
	out, _, err := runCLI(t, append([]string{"--json"}, args...), env.configPath)
	if err != nil {
		t.Fatalf("%s: %v", strings.Join(args, " "), err)
	}
	if err := json.Unmarshal([]byte(out), v); err != nil {
		t.Fatalf("decode %s output: %v\n%s", strings.Join(args, " "), err, out)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
