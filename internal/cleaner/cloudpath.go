package cleaner

import "strings"

// CloudProvider identifies a cloud storage sync service.
type CloudProvider int

const (
	Dropbox CloudProvider = iota
	GoogleDrive
	OneDrive
	ICloud
)

func (p CloudProvider) String() string {
	switch p {
	case Dropbox:
		return "Dropbox"
	case GoogleDrive:
		return "Google Drive"
	case OneDrive:
		return "OneDrive"
	case ICloud:
		return "iCloud Drive"
	default:
		return "Unknown"
	}
}

// DetectCloudPath reports whether path lies inside a known cloud-sync
// directory. Deleting there is still allowed, but the cleaner warns first:
// the sync client will replay the deletions remotely.
func DetectCloudPath(path string) (CloudProvider, bool) {
	switch {
	case strings.Contains(path, "Dropbox"):
		return Dropbox, true
	case strings.Contains(path, "Google Drive"), strings.Contains(path, "GoogleDrive"):
		return GoogleDrive, true
	case strings.Contains(path, "OneDrive"):
		return OneDrive, true
	case strings.Contains(path, "com~apple~CloudDocs"), strings.Contains(path, "iCloud Drive"):
		return ICloud, true
	default:
		return 0, false
	}
}
