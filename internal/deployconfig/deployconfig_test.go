package deployconfig

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"moorbuild/internal/build"
	"moorbuild/internal/rdb"
)

func TestDeploymentNumber(t *testing.T) {
	tests := []struct {
		site, name, want string
		wantErr          bool
	}{
		{"cp10cnsm", "D00021", "CP10CNSM-00021", false},
		{"GI01SUMO", "R0001", "GI01SUMO-00001", false},
		{"CP10CNSM", "D1", "CP10CNSM-00001", false},
		{"CP10CNSM", "Dxx", "", true},
	}
	for _, tt := range tests {
		got, err := DeploymentNumber(tt.site, tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("DeploymentNumber(%q, %q): expected error", tt.site, tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("DeploymentNumber(%q, %q): %v", tt.site, tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("DeploymentNumber(%q, %q) = %q, want %q", tt.site, tt.name, got, tt.want)
		}
	}
}

func TestDisposition(t *testing.T) {
	tests := []struct {
		name   string
		record rdb.DeploymentRecord
		want   string
	}{
		{"no dates", rdb.DeploymentRecord{}, DispositionUnknown},
		{"integration only", rdb.DeploymentRecord{StartDate: "2023-04-01"}, DispositionBurnIn},
		{"burn-in", rdb.DeploymentRecord{BurninDate: "2023-04-10"}, DispositionBurnIn},
		{"deployed", rdb.DeploymentRecord{BurninDate: "2023-04-10", ToFieldDate: "2023-05-01"}, DispositionDeployed},
		{"recovered", rdb.DeploymentRecord{ToFieldDate: "2023-05-01", RecoveryDate: "2024-05-01"}, DispositionRecovered},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Disposition(tt.record); got != tt.want {
				t.Errorf("Disposition = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGather(t *testing.T) {
	var serverURL string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/deployments/":
			json.NewEncoder(w).Encode([]rdb.DeploymentRecord{{
				DeploymentNumber: "CP10CNSM-00021",
				Latitude:         40.14,
				Longitude:        -70.77,
				Depth:            133,
				BurninDate:       "2023-04-10",
				ToFieldDate:      "2023-05-01",
				CruiseDeployed:   serverURL + "/api/v1/cruises/12/",
			}})
		case "/api/v1/cruises/12/":
			json.NewEncoder(w).Encode(rdb.CruiseRecord{CUID: "AR-72"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()
	serverURL = server.URL

	client, err := rdb.New(server.URL, "test-token", rdb.WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatal(err)
	}

	info, err := Gather(context.Background(), client, "cp10cnsm", "D00021")
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if info.DeploymentNumber != "CP10CNSM-00021" || info.Deployment != 21 {
		t.Errorf("unexpected deployment identity: %+v", info)
	}
	if info.Disposition != DispositionDeployed {
		t.Errorf("unexpected disposition: %q", info.Disposition)
	}
	if info.DeploymentCruise != "AR-72" {
		t.Errorf("unexpected deployment cruise: %q", info.DeploymentCruise)
	}
	if info.RecoveryCruise != "" {
		t.Errorf("expected no recovery cruise, got %q", info.RecoveryCruise)
	}
	if info.Latitude != 40.14 || info.SiteDepth != 133 {
		t.Errorf("unexpected position: %+v", info)
	}
}

func TestGather_NoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]rdb.DeploymentRecord{})
	}))
	defer server.Close()

	client, _ := rdb.New(server.URL, "test-token", rdb.WithHTTPClient(server.Client()))
	_, err := Gather(context.Background(), client, "cp10cnsm", "D99999")
	if !build.IsNotFound(err) {
		t.Fatalf("expected IsNotFound, got: %v", err)
	}
}

func TestRenderAndWriteFile(t *testing.T) {
	dir := t.TempDir()
	templatePath := filepath.Join(dir, "config.yaml.tmpl")
	templateBody := `mooring: {{ .Mooring }}
deployment: {{ .Deployment }}
disposition: {{ .Disposition }}
location:
  latitude: {{ .Latitude }}
  longitude: {{ .Longitude }}
`
	if err := os.WriteFile(templatePath, []byte(templateBody), 0600); err != nil {
		t.Fatal(err)
	}

	info := &Info{
		Mooring:     "cp10cnsm",
		Deployment:  21,
		Disposition: DispositionDeployed,
		Latitude:    40.14,
		Longitude:   -70.77,
	}

	doc, err := Render(templatePath, info)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	outPath := filepath.Join(dir, "config.yaml")
	if err := WriteFile(outPath, doc); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	var parsed struct {
		Mooring     string `yaml:"mooring"`
		Deployment  int    `yaml:"deployment"`
		Disposition string `yaml:"disposition"`
		Location    struct {
			Latitude  float64 `yaml:"latitude"`
			Longitude float64 `yaml:"longitude"`
		} `yaml:"location"`
	}
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if parsed.Mooring != "cp10cnsm" || parsed.Deployment != 21 {
		t.Errorf("unexpected output: %+v", parsed)
	}
	if parsed.Location.Latitude != 40.14 {
		t.Errorf("unexpected latitude: %v", parsed.Location.Latitude)
	}
	// Key order from the template survives the round trip.
	if !strings.HasPrefix(string(data), "mooring:") {
		t.Errorf("expected mooring first, got:\n%s", data)
	}
}

func TestRender_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	templatePath := filepath.Join(dir, "broken.tmpl")
	if err := os.WriteFile(templatePath, []byte("key: [unclosed\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Render(templatePath, &Info{}); err == nil {
		t.Error("expected error for invalid rendered YAML")
	}
}
