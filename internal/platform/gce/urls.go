package gce

import (
	"fmt"
	"strings"
)

// ResourceName returns the trailing path segment of a resource URL.
// "https://.../zones/us-central1-a/machineTypes/n1-standard-1" becomes
// "n1-standard-1". A value without slashes is returned unchanged.
func ResourceName(url string) string {
	url = strings.TrimRight(url, "/")
	if i := strings.LastIndex(url, "/"); i >= 0 {
		return url[i+1:]
	}
	return url
}

// ImageURL returns the partial URL of a global image.
func ImageURL(project, image string) string {
	return fmt.Sprintf("projects/%s/global/images/%s", project, image)
}

// NetworkURL returns the partial URL of a global network.
func NetworkURL(project, network string) string {
	return fmt.Sprintf("projects/%s/global/networks/%s", project, network)
}

// MachineTypeURL returns the partial URL of a zonal machine type.
func MachineTypeURL(zone, machineType string) string {
	return fmt.Sprintf("zones/%s/machineTypes/%s", zone, machineType)
}

// DiskTypeURL returns the partial URL of a zonal disk type.
func DiskTypeURL(zone, diskType string) string {
	return fmt.Sprintf("zones/%s/diskTypes/%s", zone, diskType)
}

// DiskURL returns the partial URL of a zonal disk.
func DiskURL(project, zone, disk string) string {
	return fmt.Sprintf("projects/%s/zones/%s/disks/%s", project, zone, disk)
}
