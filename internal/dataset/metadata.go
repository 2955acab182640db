package dataset

// Name is the name of the corpus.
const Name = "haydn_op20"

// DefaultVersion is the index version used when none is configured.
const DefaultVersion = "1.3"

// Bibtex is the citation of the corpus.
const Bibtex = `
@dataset{nestor_napoles_lopez_2017_1095630,
  author={N\'apoles L\'opez, N\'estor},
  title={{Joseph Haydn - String Quartets Op.20 - Harmonic Analysis Annotations Dataset}},
  month=dec,
  year=2017,
  publisher={Zenodo},
  version={v1.1-alpha},
  doi={10.5281/zenodo.1095630},
  url={https://doi.org/10.5281/zenodo.1095630}
}`

// LicenseInfo describes the license of the corpus.
const LicenseInfo = "Creative Commons Attribution Non Commercial Share Alike 4.0 International."

// RemoteFile describes a downloadable archive.
type RemoteFile struct {
	Filename string
	URL      string
	// Checksum is an MD5 sum in hex.
	Checksum string
}

// Remote is where the annotated corpus can be downloaded.
var Remote = RemoteFile{
	Filename: "haydnop20v1.3_annotated.zip",
	URL:      "https://github.com/napulen/haydn_op20_harm/releases/download/v1.3/haydnop20v1.3_annotated.zip",
	Checksum: "1c65c8da312e1c9dda681d0496bf527f",
}

// IndexFile returns the name of the index file of a version.
func IndexFile(version string) string {
	return "haydn_op20_index_" + version + ".json"
}
