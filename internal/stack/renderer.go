package stack

// Renderer draws cards. Every method is called on the stack's goroutine.
type Renderer interface {
	// Mount creates the visual for a newly inserted card.
	Mount(c *Card)
	// Update refreshes a card after its state, index or progress changed.
	Update(c *Card)
	// Exit plays the exit animation and calls done once it has finished.
	Exit(c *Card, done func())
	// Unmount destroys the visual of a removed card.
	Unmount(c *Card)
	// Height returns the rendered height of a card.
	Height(c *Card) int
	// Resize sets the height of the stack container.
	Resize(height int)
}

// nopRenderer stands in when the host has nothing to draw on.
type nopRenderer struct{}

func (nopRenderer) Mount(*Card) {}
func (nopRenderer) Update(*Card) {}
func (nopRenderer) Exit(_ *Card, done func()) { done() }
func (nopRenderer) Unmount(*Card) {}
func (nopRenderer) Height(*Card) int { return 0 }
func (nopRenderer) Resize(int) {}
