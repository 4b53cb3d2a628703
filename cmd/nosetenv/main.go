// Command nosetenv reports environment mutation in test files.
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/qolzam/telar/apps/photo-comments/tools/nosetenv"
)

func main() {
	singlechecker.Main(nosetenv.Analyzer)
}
