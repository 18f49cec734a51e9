package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lexcurate/internal/config"
	"lexcurate/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	datasetDir string
}

// wordlist has two cognate sets overlapping on F1, a homophone pair F1/F2,
// one unsegmented form and one form covered by a whole-form judgement.
var wordlist = testsupport.Tables{
	Languages: testsupport.LanguagesHeader + "L1,Lang One\nL2,Lang Two\n",
	Concepts:  testsupport.ConceptsHeader + "fire,FIRE,221\nwater,WATER,948\n",
	Forms: testsupport.FormsHeader +
		"F1,L1,fire,pɔɾ,p ɔ ɾ,,\n" +
		"F2,L1,fire,pɔɾ,p ɔ ɾ,,\n" +
		"F3,L2,water,tapɔ,t a p ɔ,,\n" +
		"F4,L2,water,aku,,,\n",
	CognateSets: testsupport.CognateSetsHeader + "A,fire,,,\nB,fire,,,\nC,water,,,\n",
	Judgements: testsupport.JudgementsHeader +
		"j1,F1,A,0:2,p ɔ,\n" +
		"j2,F1,B,1:3,ɔ ɾ,\n" +
		"j3,F3,C,,t a p ɔ,\n",
}

func setupCLITestEnv(t *testing.T, tables testsupport.Tables) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, testsupport.WithDataset(tables))
	base := testsupport.BaseDir(cfg)
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		datasetDir: filepath.Dir(cfg.Paths.Metadata),
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nmetadata = %q\nstate_dir = %q\nlog_dir = %q\nconcept_graph = %q\n\n[logging]\nlevel = \"warn\"\n",
		cfg.Paths.Metadata,
		cfg.Paths.StateDir,
		cfg.Paths.LogDir,
		cfg.Paths.ConceptGraph,
	)
	testsupport.WriteText(t, path, content)
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (e *cliTestEnv) table(t *testing.T, name string) string {
	t.Helper()
	return testsupport.ReadText(t, filepath.Join(e.datasetDir, name))
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q not to contain %q", output, substr)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
