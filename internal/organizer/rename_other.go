//go:build !linux

package organizer

func renameNoReplace(src, dst string) error {
	return renameChecked(src, dst)
}
