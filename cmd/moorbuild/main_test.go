package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"moorbuild/internal/rdb"
)

func TestDeploymentNumberFromArgs(t *testing.T) {
	tests := []struct {
		args    []string
		want    string
		wantErr bool
	}{
		{[]string{"cp10cnsm", "D00021"}, "CP10CNSM-00021", false},
		{[]string{"CP10CNSM-00021"}, "CP10CNSM-00021", false},
		{[]string{"cp10cnsm-00021"}, "CP10CNSM-00021", false},
		{[]string{"notanumber"}, "", true},
	}
	for _, tt := range tests {
		got, err := deploymentNumberFromArgs(tt.args)
		if tt.wantErr {
			if err == nil {
				t.Errorf("deploymentNumberFromArgs(%v): expected error", tt.args)
			}
			continue
		}
		if err != nil {
			t.Errorf("deploymentNumberFromArgs(%v): %v", tt.args, err)
			continue
		}
		if got != tt.want {
			t.Errorf("deploymentNumberFromArgs(%v) = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestBuildCommand_JSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/deployments/":
			json.NewEncoder(w).Encode([]rdb.DeploymentRecord{{
				DeploymentNumber: "CP10CNSM-00021",
				Latitude:         40.14,
				Longitude:        -70.77,
				AssemblyParts: []rdb.AssemblyPartRecord{{
					URL:      "https://rdb.example.org/api/v1/assembly_parts/1/",
					PartName: "Spectrophotometer",
					ConfigurationValues: []rdb.ConfigurationValue{
						{Name: "Component Name", Value: "OPTAAD1"},
					},
				}},
			}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"build", "CP10CNSM-00021",
		"--host", server.URL, "--token", "test-token", "--json"})
	t.Cleanup(func() {
		rootFlags.host = ""
		rootFlags.token = ""
		buildFlags.jsonOut = false
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	var report buildReport
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out.String())
	}
	if report.DeploymentNumber != "CP10CNSM-00021" {
		t.Errorf("unexpected deployment number: %q", report.DeploymentNumber)
	}
	if len(report.AssemblyParts) != 1 {
		t.Fatalf("expected 1 assembly part, got %d", len(report.AssemblyParts))
	}
	ap := report.AssemblyParts[0]
	if ap.ComponentBasename != "OPTAAD" || ap.IsCPU {
		t.Errorf("unexpected classification: %+v", ap)
	}
	if strings.Contains(out.String(), "PARENT CPU") {
		t.Error("JSON output should not contain the table header")
	}
}
