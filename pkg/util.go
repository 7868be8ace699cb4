package pkg

import (
	"os"
)

// PathExists reports whether path exists and is a directory (isDir) or a
// regular file (!isDir).
func PathExists(path string, isDir bool) (bool, error) {
	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return stat.IsDir() == isDir, nil
}
