package driven

// ImageNormaliser converts uploaded images into PNG for captioning.
type ImageNormaliser interface {
	// ToPNG decodes data in any supported format and re-encodes it as PNG.
	ToPNG(data []byte) ([]byte, error)
}
