package models

// AuxFileType distinguishes the two kinds of auxiliary data files a
// delivery may carry.
type AuxFileType int32

const (
	AuxFileMain  AuxFileType = 0
	AuxFilePatch AuxFileType = 1
)

// String returns the file-name tag for the type.
func (t AuxFileType) String() string {
	if t == AuxFilePatch {
		return "patch"
	}
	return "main"
}

// DownloadCookie is the auth cookie required to fetch the primary
// package location.
type DownloadCookie struct {
	Name  string
	Value string
}

// SplitPackage is an additional installable part delivered alongside
// the primary package.
type SplitPackage struct {
	Name        string
	DownloadURL string
}

// AuxFile is a large non-executable asset delivered alongside a
// package, tagged main or patch.
type AuxFile struct {
	Type        AuxFileType
	VersionCode int32
	Size        int64
	DownloadURL string
}

// AcquisitionManifest describes everything needed to fetch one
// purchased package: the token, the primary location plus its cookie,
// and any split packages and auxiliary files.
type AcquisitionManifest struct {
	DownloadToken string
	DownloadURL   string
	DownloadSize  int64
	Cookie        DownloadCookie
	Splits        []SplitPackage
	AuxFiles      []AuxFile
}
