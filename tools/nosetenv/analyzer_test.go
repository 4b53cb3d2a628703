package nosetenv_test

import (
	"testing"

	"golang.org/x/tools/go/analysis/analysistest"

	"github.com/qolzam/telar/apps/photo-comments/tools/nosetenv"
)

func TestAnalyzer(t *testing.T) {
	analysistest.Run(t, analysistest.TestData(), nosetenv.Analyzer, "a")
}
