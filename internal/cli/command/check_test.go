package command

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"
)

func TestCheckCommand_Defaults(t *testing.T) {
	app, stdout, _ := testApp()

	if err := app.Run([]string{"xpconnect-host", "check"}); err != nil {
		t.Fatalf("check error = %v", err)
	}

	out := stdout.String()
	for _, want := range []string{"KEY", "channel.name", "LittleXpConnect", "channel.lock_timeout", "5ms", "loop.interval", "1s"} {
		if !strings.Contains(out, want) {
			t.Errorf("check output missing %q:\n%s", want, out)
		}
	}
}

func TestCheckCommand_FileFlagsAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xpconnect.yaml")
	content := `
channel:
  name: FromFile
  lock_timeout: 2ms
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("XPCONNECT_LOOP_RETRY_EVERY", "7")

	app, stdout, _ := testApp()
	args := []string{"xpconnect-host", "--config", path, "--name", "FromFlag", "check", "-o", "json"}
	if err := app.Run(args); err != nil {
		t.Fatalf("check error = %v", err)
	}

	var got map[string]string
	if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout.String())
	}

	want := map[string]string{
		"channel.name":         "FromFlag",
		"channel.lock_timeout": "2ms",
		"log.level":            "debug",
		"loop.retry_every":     "7",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
}

func TestCheckCommand_Rejected(t *testing.T) {
	app, _, _ := testApp()

	err := app.Run([]string{"xpconnect-host", "--log-level", "loud", "check"})
	if err == nil {
		t.Fatal("invalid log level should be rejected")
	}
	exit, ok := err.(cli.ExitCoder)
	if !ok {
		t.Fatalf("error %v should carry an exit code", err)
	}
	if exit.ExitCode() != 2 {
		t.Errorf("exit code = %d, want 2", exit.ExitCode())
	}
	if !strings.Contains(err.Error(), "log.level") {
		t.Errorf("error should name the setting, got %v", err)
	}
}
