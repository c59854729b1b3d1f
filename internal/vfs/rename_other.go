//go:build !linux && !darwin

package vfs

func renameNoReplace(oldpath, newpath string) error {
	return linkNoReplace(oldpath, newpath)
}
