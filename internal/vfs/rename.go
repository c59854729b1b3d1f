package vfs

import "os"

// linkNoReplace hard-links oldpath at newpath and removes oldpath. link(2)
// never replaces an existing name, so a taken newpath fails with EEXIST.
func linkNoReplace(oldpath, newpath string) error {
	if err := os.Link(oldpath, newpath); err != nil {
		return err
	}
	return os.Remove(oldpath)
}
