package catalog

// Kind is the closed tag distinguishing entry variants. The string
// values are the `type` field of the snapshot document and must not
// change without coordinating with downstream consumers.
type Kind string

const (
	KindFile    Kind = "file"
	KindSymlink Kind = "symlink"
	KindDir     Kind = "dir"
	KindArchive Kind = "archive"
	KindImage   Kind = "image"
	KindAudio   Kind = "audio"
	KindVideo   Kind = "video"
)

// kindSpec drives per-kind behavior: the MIME prefix the kind declares
// (empty means unconstrained), whether the kind reads file content
// (sniff + hash), and which optional field groups it carries.
type kindSpec struct {
	MimePrefix   string
	ReadsContent bool
	ImageFields  bool
	AudioFields  bool
}

var kindSpecs = map[Kind]kindSpec{
	KindFile:    {ReadsContent: true},
	KindSymlink: {},
	KindDir:     {},
	KindArchive: {ReadsContent: true},
	KindImage:   {MimePrefix: "image/", ReadsContent: true, ImageFields: true},
	KindAudio:   {MimePrefix: "audio/", ReadsContent: true, AudioFields: true},
	// Video carries both field groups rather than specializing either.
	KindVideo: {MimePrefix: "video/", ReadsContent: true, ImageFields: true, AudioFields: true},
}

// mediaPriority is the fixed dispatch order for extension-guessed MIME
// types: the first kind whose declared prefix matches wins.
var mediaPriority = []Kind{KindImage, KindVideo, KindAudio}

// Kinds returns the closed set of entry kinds.
func Kinds() []Kind {
	return []Kind{KindFile, KindSymlink, KindDir, KindArchive, KindImage, KindAudio, KindVideo}
}
