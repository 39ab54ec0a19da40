package misc

// NoCopy marks a struct as unsafe to copy after first use.  Embedding one
// makes go vet's copylocks check flag accidental copies.
type NoCopy struct{}

func (*NoCopy) Lock()   {}
func (*NoCopy) Unlock() {}
