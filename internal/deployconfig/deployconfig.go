// Package deployconfig gathers deployment metadata from the RDB and renders
// deployment configuration documents from templates.
package deployconfig

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"moorbuild/internal/build"
	"moorbuild/internal/rdb"
)

// Deployment dispositions, derived from which lifecycle dates are set.
const (
	DispositionUnknown   = "UNKNOWN_DISPOSITION"
	DispositionBurnIn    = "burn-in"
	DispositionDeployed  = "deployed"
	DispositionRecovered = "recovered"
)

// Info is the template context for one site deployment.
type Info struct {
	Mooring          string
	Deployment       int
	DeploymentName   string
	DeploymentNumber string
	Disposition      string

	IntegrationStart string
	BurnInStart      string
	DeploymentStart  string
	DeploymentEnd    string

	Latitude  float64
	Longitude float64
	SiteDepth float64

	DeploymentCruise string
	RecoveryCruise   string
}

// DeploymentNumber builds the canonical deployment number from a mooring site
// code and a deployment name such as "D00021" or "R0001". The number of
// leading zeros in the name does not matter.
func DeploymentNumber(site, deploymentName string) (string, error) {
	var digits strings.Builder
	for _, r := range deploymentName {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return "", fmt.Errorf("deployment name %q contains no sequence number", deploymentName)
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return "", fmt.Errorf("deployment name %q: %w", deploymentName, err)
	}
	return fmt.Sprintf("%s-%05d", strings.ToUpper(site), n), nil
}

// Disposition derives the deployment state from the record's lifecycle
// dates. Later stages win: a recovered deployment was also deployed.
func Disposition(record rdb.DeploymentRecord) string {
	disposition := DispositionUnknown
	if record.StartDate != "" {
		disposition = DispositionBurnIn
	}
	if record.BurninDate != "" {
		disposition = DispositionBurnIn
	}
	if record.ToFieldDate != "" {
		disposition = DispositionDeployed
	}
	if record.RecoveryDate != "" {
		disposition = DispositionRecovered
	}
	return disposition
}

// Gather fetches the deployment record for site/deploymentName and the
// cruise records it references, assembling the template context.
func Gather(ctx context.Context, client *rdb.Client, site, deploymentName string) (*Info, error) {
	number, err := DeploymentNumber(site, deploymentName)
	if err != nil {
		return nil, err
	}

	records, err := client.FindDeployments(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("find deployment %s: %w", number, err)
	}
	if len(records) != 1 {
		return nil, &build.NotFoundError{DeploymentNumber: number, Matches: len(records)}
	}
	record := records[0]

	info := &Info{
		Mooring:          site,
		DeploymentName:   deploymentName,
		DeploymentNumber: number,
		Disposition:      Disposition(record),
		IntegrationStart: record.StartDate,
		BurnInStart:      record.BurninDate,
		DeploymentStart:  record.ToFieldDate,
		DeploymentEnd:    record.RecoveryDate,
		Latitude:         record.Latitude,
		Longitude:        record.Longitude,
		SiteDepth:        record.Depth,
	}
	if idx := strings.LastIndex(number, "-"); idx >= 0 {
		info.Deployment, _ = strconv.Atoi(number[idx+1:])
	}

	if record.CruiseDeployed != "" {
		cruise, err := client.GetCruise(ctx, record.CruiseDeployed)
		if err != nil {
			return nil, fmt.Errorf("deployment cruise: %w", err)
		}
		info.DeploymentCruise = cruise.CUID
	}
	if record.CruiseRecovered != "" {
		cruise, err := client.GetCruise(ctx, record.CruiseRecovered)
		if err != nil {
			return nil, fmt.Errorf("recovery cruise: %w", err)
		}
		info.RecoveryCruise = cruise.CUID
	}

	return info, nil
}
