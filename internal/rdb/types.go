package rdb

import (
	"context"
	"fmt"
	"net/url"
)

// --- RDB response types (consumed fields only) ---

// DeploymentRecord is the build record for one site deployment. Date fields
// are ISO 8601 strings; a null in the response decodes to "".
type DeploymentRecord struct {
	URL                  string               `json:"url"`
	DeploymentNumber     string               `json:"deployment_number"`
	AssemblyParts        []AssemblyPartRecord `json:"assembly_parts"`
	InventoryDeployments []string             `json:"inventory_deployments"`
	Latitude             float64              `json:"latitude"`
	Longitude            float64              `json:"longitude"`
	Depth                float64              `json:"depth"`
	StartDate            string               `json:"deployment_start_date"`
	BurninDate           string               `json:"deployment_burnin_date"`
	ToFieldDate          string               `json:"deployment_to_field_date"`
	RecoveryDate         string               `json:"deployment_recovery_date"`
	CruiseDeployed       string               `json:"cruise_deployed"`
	CruiseRecovered      string               `json:"cruise_recovered"`
}

// AssemblyPartRecord is one installed part instance embedded in a deployment
// record, with its deployment-specific configuration values.
type AssemblyPartRecord struct {
	URL                 string               `json:"assembly_part_url"`
	PartName            string               `json:"part_name"`
	ParentURL           string               `json:"parent_assembly_part_url"`
	ConfigurationValues []ConfigurationValue `json:"configuration_values"`
}

// ConfigurationValue is a single name/value configuration pair.
type ConfigurationValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PartRecord is a generic inventory item in the structural part hierarchy.
// Parent is the URL of the parent part, or "" at a root.
type PartRecord struct {
	PartName string `json:"part_name"`
	Parent   string `json:"parent"`
}

// CruiseRecord carries the cruise identifier for a deploy or recover cruise.
type CruiseRecord struct {
	CUID string `json:"CUID"`
}

// --- Typed fetch helpers ---

// FindDeployments returns the deployment records matching a deployment number
// (e.g. "CP10CNSM-00001"). The filter endpoint answers with a JSON array.
func (c *Client) FindDeployments(ctx context.Context, deploymentNumber string) ([]DeploymentRecord, error) {
	endpoint := fmt.Sprintf("deployments/?deployment_number=%s", url.QueryEscape(deploymentNumber))
	var records []DeploymentRecord
	if err := c.GetEndpoint(ctx, endpoint, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// GetDeployment fetches a single deployment record by its absolute URL.
func (c *Client) GetDeployment(ctx context.Context, deploymentURL string) (*DeploymentRecord, error) {
	var record DeploymentRecord
	if err := c.Get(ctx, deploymentURL, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// GetPart fetches a single part record by its absolute URL.
func (c *Client) GetPart(ctx context.Context, partURL string) (*PartRecord, error) {
	var record PartRecord
	if err := c.Get(ctx, partURL, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// GetCruise fetches a cruise record by its absolute URL.
func (c *Client) GetCruise(ctx context.Context, cruiseURL string) (*CruiseRecord, error) {
	var record CruiseRecord
	if err := c.Get(ctx, cruiseURL, &record); err != nil {
		return nil, err
	}
	return &record, nil
}
