package tui

const defaultImageAlt = "Todo Image"

// imagePreview is the image modal: open with a source, close clears it.
type imagePreview struct {
	open bool
	src  string
	alt  string
}

// Open is a no-op for an empty source.
func (p *imagePreview) Open(src, alt string) {
	if src == "" {
		return
	}
	if alt == "" {
		alt = defaultImageAlt
	}
	p.src = src
	p.alt = alt
	p.open = true
}

func (p *imagePreview) Close() {
	p.open = false
	p.src = ""
}
