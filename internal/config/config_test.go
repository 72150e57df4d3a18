package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pion/webrtc/v4"
)

func TestLoadFileDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Port != 3001 || cfg.PingPeriod != 54*time.Second || cfg.PongWait != 60*time.Second {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if !cfg.Admission.RequireActive {
		t.Fatal("require_active should default to true")
	}
	if len(cfg.ICEServers) != 1 || cfg.ICEServers[0].URLs[0] != "stun:stun.l.google.com:19302" {
		t.Fatalf("ice servers = %+v", cfg.ICEServers)
	}
}

func TestLoadFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	yaml := `
port: 8080
admission:
  require_active: false
ice_servers:
  - urls: ["turn:turn.example.org:3478"]
    username: podcast
    credential: s3cret
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("PODCAST_PORT", "9090")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Port != 9090 {
		t.Fatalf("env should override file: port = %d", cfg.Port)
	}
	if cfg.Admission.RequireActive {
		t.Fatal("require_active from file ignored")
	}

	servers := cfg.WebRTCICEServers()
	if len(servers) != 1 {
		t.Fatalf("servers = %+v", servers)
	}
	if servers[0].Username != "podcast" || servers[0].Credential != "s3cret" || servers[0].CredentialType != webrtc.ICECredentialTypePassword {
		t.Fatalf("turn server = %+v", servers[0])
	}
}

func TestValidate(t *testing.T) {
	cfg := Config{Port: 0, PingPeriod: time.Minute, PongWait: time.Second}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid config accepted")
	}
	for _, want := range []string{"port", "pong_wait", "send_buffer", "jwt_secret", "rate_limit"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}
