package markup

// WarningType categorizes conversion warnings.
type WarningType string

const (
	WarningDroppedElement      WarningType = "dropped_element"
	WarningUnwrappedElement    WarningType = "unwrapped_element"
	WarningDroppedAttribute    WarningType = "dropped_attribute"
	WarningDroppedStyle        WarningType = "dropped_style"
	WarningParseFallback       WarningType = "parse_fallback"
	WarningDroppedFeature      WarningType = "dropped_feature"
	WarningFlattenedBlock      WarningType = "flattened_block"
	WarningUnresolvedReference WarningType = "unresolved_reference"
)

// Warning represents a non-fatal issue encountered during conversion.
type Warning struct {
	Type     WarningType `json:"type"`
	NodeType string      `json:"nodeType,omitempty"`
	Message  string      `json:"message"`
}
