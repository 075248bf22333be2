package hook

// DetectedRecord is one installation reported by a third-party PM plugin,
// the shape an AbstractThirdPartyPM implementation
// hands back to the detection pipeline.
type DetectedRecord struct {
	PackageName string
	Version string
	Directory string
	UninstallScript string // empty if the plugin provided none
}

// Plugin is a third-party package manager detector: a Tengo script that,
// when run, reports the installations it found under DetectionInfoPrefix.
// Every record it returns is tagged with that prefix by the caller so the
// five-case reconciliation policy in pkg/detect can tell which records a
// pass owns.
type Plugin struct {
	Name string
	DetectionInfoPrefix string
	Script string
}
