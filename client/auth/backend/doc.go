// Package backend calls the detection backend's token endpoints: issue,
// refresh and logout. These calls are never authenticated and never retried,
// so they use a plain transport rather than the authenticated pipeline.
package backend
