package creative

// Record is one creative inventory item ready for serialization. Optional
// fields are nil when unset so that they are omitted from the JSON output.
type Record struct {
	Name               string  `json:"name"`
	Metadata           *uint32 `json:"metadata,omitempty"`
	NBT                []byte  `json:"nbt_b64,omitempty"`
	BlockStateName     *string `json:"block_state_name,omitempty"`
	BlockStateMetadata *int    `json:"block_state_metadata,omitempty"`
}

type DiagnosticKind string

const UnexpectedBlockAssociation DiagnosticKind = "unexpected_block_association"

// Diagnostic describes a non-fatal oddity found while assembling records.
type Diagnostic struct {
	Kind           DiagnosticKind `json:"kind"`
	Index          int            `json:"index"`
	NetworkID      int32          `json:"network_id"`
	Name           string         `json:"name"`
	BlockRuntimeID int32          `json:"block_runtime_id"`
}

type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc adapts a plain function to Reporter.
type ReporterFunc func(d Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) { f(d) }

type discard struct{}

func (discard) Report(Diagnostic) {}
