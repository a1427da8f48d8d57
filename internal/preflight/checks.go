package preflight

import (
	"fmt"
	"os"
)

// CheckDirectoryAccess verifies that the directory exists and is readable and
// writable.
func CheckDirectoryAccess(name, path string) Result {
	if res, ok := statDirectory(name, path); !ok {
		return res
	}
	if err := accessReadWrite(path); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckDirectoryReadable verifies that the directory exists and can be listed.
func CheckDirectoryReadable(name, path string) Result {
	if res, ok := statDirectory(name, path); !ok {
		return res
	}
	if err := accessRead(path); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read ok)", path)}
}

func statDirectory(name, path string) (Result, bool) {
	if path == "" {
		return Result{Name: name, Detail: "(error: not configured)"}, false
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}, false
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}, false
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}, false
	}
	return Result{}, true
}
