// Package rdb provides a client for the OOI RDB asset-tracking REST API.
//
// Usage:
//
//	client, err := rdb.New("https://ooi-rdb.whoi.edu", token, rdb.WithTimeout(30*time.Second))
//	deps, err := client.FindDeployments(ctx, "CP10CNSM-00001")
//	part, err := client.GetPart(ctx, partURL)
//
// Connection-level failures are retried with exponential backoff; HTTP error
// statuses are not retried and surface as typed errors (see errors.go).
package rdb
