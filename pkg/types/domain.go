package types

// Version is one on-disk snapshot of a reloadable artifact.
type Version struct {
	// Directory name; versions are ordered by lexicographic comparison of ID.
	// example: net_model_20261016120000
	ID string `json:"id" example:"net_model_20261016120000"`
	// Absolute path to the version directory.
	// example: /data/models/ctr/net_model_20261016120000
	Path string `json:"path" example:"/data/models/ctr/net_model_20261016120000"`
	// Whether the required marker files are present.
	// example: true
	Valid bool `json:"valid" example:"true"`
}

// Newer reports whether v orders after other.
func (v Version) Newer(other Version) bool { return v.ID > other.ID }
