// Package gce provides a narrow wrapper around the Compute Engine API client.
//
// # Architecture
//
// The package is organized into small files:
//
//   - client.go: Gateway interface, split by endpoint family
//   - real_client.go: Gateway implementation over google.golang.org/api/compute/v1
//   - errors.go: Error classification and the tri-state existence Probe
//   - urls.go: Builders and parsers for partial resource URLs
//
// # Gateway
//
// Every call is a single synchronous round trip. Mutating calls return the
// *compute.Operation as issued; waiting for it is the caller's concern (see
// internal/util/poll). List calls return one page plus the next page token;
// walking all pages is the caller's concern (see internal/util/pager).
//
// # Connection
//
// RealClient creates its compute.Service lazily on the first call and reuses
// it for the lifetime of the client. Credentials come from the application
// default credentials unless WithCredentialsFile or WithHTTPClient is given.
//
// # Example Usage
//
//	client := gce.NewRealClient(gce.WithCredentialsFile("key.json"))
//
//	op, err := client.InsertInstance(ctx, "my-project", "us-central1-a", &compute.Instance{
//	    Name:        "web-1",
//	    MachineType: gce.MachineTypeURL("us-central1-a", "n1-standard-1"),
//	})
//
//	res := gce.Probe(ctx, func(ctx context.Context) (*compute.Image, error) {
//	    return client.GetImage(ctx, "debian-cloud", "debian-12")
//	})
package gce
