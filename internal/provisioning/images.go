package provisioning

import (
	"context"
	"fmt"
	"strings"

	compute "google.golang.org/api/compute/v1"

	"github.com/imamik/gcectl/internal/platform/gce"
)

// ImageReference identifies an image in a project.
type ImageReference struct {
	Project string
	Name    string
}

// URL returns the partial resource URL used as a disk source image.
func (r ImageReference) URL() string {
	return gce.ImageURL(r.Project, r.Name)
}

// vendorProjects maps image name fragments to the public projects hosting
// those images. Entries are checked in order and the first match wins.
var vendorProjects = []struct {
	fragment string
	project  string
}{
	{"centos", "centos-cloud"},
	{"container-vm", "google-containers"},
	{"coreos", "coreos-cloud"},
	{"debian", "debian-cloud"},
	{"opensuse-cloud", "opensuse-cloud"},
	{"rhel", "rhel-cloud"},
	{"sles", "suse-cloud"},
	{"ubuntu", "ubuntu-os-cloud"},
}

// VendorProject returns the public project that publishes image, or false
// when no known fragment occurs in the name.
func VendorProject(image string) (string, bool) {
	for _, vp := range vendorProjects {
		if strings.Contains(image, vp.fragment) {
			return vp.project, true
		}
	}
	return "", false
}

// ResolveImage locates image. With an explicit imageProject only that project
// is searched. Otherwise the validator's own project is searched first, then
// the public vendor project inferred from the image name.
func (v *Validator) ResolveImage(ctx context.Context, image, imageProject string) (*ImageReference, error) {
	if image == "" {
		return nil, &ValidationError{Field: "image", Message: "image is required"}
	}

	if imageProject != "" {
		if v.imageExists(ctx, imageProject, image) {
			return &ImageReference{Project: imageProject, Name: image}, nil
		}
		return nil, &ValidationError{Field: "image", Value: image,
			Message: fmt.Sprintf("image not found in project %s", imageProject)}
	}

	if v.imageExists(ctx, v.project, image) {
		return &ImageReference{Project: v.project, Name: image}, nil
	}

	vendor, ok := VendorProject(image)
	if !ok {
		return nil, &ValidationError{Field: "image", Value: image,
			Message: fmt.Sprintf("image not found in project %s and no public image project matches its name", v.project)}
	}

	if v.imageExists(ctx, vendor, image) {
		return &ImageReference{Project: vendor, Name: image}, nil
	}

	return nil, &ValidationError{Field: "image", Value: image,
		Message: fmt.Sprintf("image not found in project %s or %s", v.project, vendor)}
}

func (v *Validator) imageExists(ctx context.Context, project, name string) bool {
	return probe(ctx, v.log, "image", project+"/"+name, func(ctx context.Context) (*compute.Image, error) {
		return v.gw.GetImage(ctx, project, name)
	})
}
