package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/zhubert/chatmodal/internal/demo/scenarios"
)

func TestGetScenario(t *testing.T) {
	s, err := getScenario(nil)
	if err != nil {
		t.Fatalf("getScenario(nil): %v", err)
	}
	if s.Name != defaultScenario {
		t.Errorf("default scenario = %q", s.Name)
	}

	if _, err := getScenario([]string{"nope"}); err == nil {
		t.Error("unknown scenario should fail")
	}
}

func TestGetScenario_LatencyDoesNotMutateBuiltin(t *testing.T) {
	orig := demoLatency
	defer func() { demoLatency = orig }()
	demoLatency = 250 * time.Millisecond

	s, err := getScenario([]string{"empty"})
	if err != nil {
		t.Fatal(err)
	}
	if s.Latency != demoLatency {
		t.Errorf("Latency = %v", s.Latency)
	}
	if scenarios.Get("empty").Latency == demoLatency {
		t.Error("built-in scenario was modified")
	}
}

func TestPrintScenarios(t *testing.T) {
	var out bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&out)
	printScenarios(c)

	for _, s := range scenarios.All() {
		if !strings.Contains(out.String(), s.Name) {
			t.Errorf("listing misses %q", s.Name)
		}
	}
}

func TestStartBackend_ServesScenario(t *testing.T) {
	scenario, err := getScenario(nil)
	if err != nil {
		t.Fatal(err)
	}
	srv, ln, err := startBackend(scenario)
	if err != nil {
		t.Fatalf("startBackend: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- serve(srv, ln) }()

	resp, err := http.Get(fmt.Sprintf("http://%s/conversaciones/%d", ln.Addr(), scenario.UserID))
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	var body struct {
		Conversaciones []json.RawMessage `json:"conversaciones"`
	}
	err = json.NewDecoder(resp.Body).Decode(&body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Conversaciones) != len(scenario.Conversations) {
		t.Errorf("listed %d conversations, want %d", len(body.Conversaciones), len(scenario.Conversations))
	}

	shutdown(srv)
	if err := <-done; err != nil {
		t.Errorf("serve returned %v after shutdown", err)
	}
}
