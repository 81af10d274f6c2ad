package cmd

import (
	"context"
	"flag"
	"testing"
)

type testConfig struct {
	Address string `env:"CMD_TEST_ADDRESS" envDefault:"127.0.0.1:3000"`
	DBPath  string `env:"CMD_TEST_DB_PATH" envDefault:"data/sessions.db"`
}

func TestParseConfigReadsEnvAndFlags(t *testing.T) {
	t.Setenv("CMD_TEST_ADDRESS", "env:9000")
	t.Setenv("CMD_TEST_DB_PATH", "env.db")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfgRef := testConfig{}
	if err := ParseConfig(&cfgRef); err != nil {
		t.Fatalf("load config defaults: %v", err)
	}
	fs.StringVar(&cfgRef.Address, "address", cfgRef.Address, "address")
	fs.StringVar(&cfgRef.DBPath, "db", cfgRef.DBPath, "db path")

	if err := ParseArgs(fs, []string{"-address", "flag:9001"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if cfgRef.Address != "flag:9001" {
		t.Fatalf("expected flag value for address, got %q", cfgRef.Address)
	}
	if cfgRef.DBPath != "env.db" {
		t.Fatalf("expected env default db path, got %q", cfgRef.DBPath)
	}
}

func TestParseConfigFromArgsReadsEnvAndFlags(t *testing.T) {
	t.Setenv("CMD_TEST_ADDRESS", "configarg:9000")

	cfgRef := testConfig{}
	fs := flag.NewFlagSet("configargs", flag.ContinueOnError)
	fs.StringVar(&cfgRef.Address, "address", "", "address")
	if err := ParseConfigFromArgs(&cfgRef, fs, []string{"-address", "flag:9002"}); err != nil {
		t.Fatalf("parse config and args: %v", err)
	}
	if cfgRef.Address != "flag:9002" {
		t.Fatalf("expected parsed flag address, got %q", cfgRef.Address)
	}
}

func TestParseArgsRejectsNilParser(t *testing.T) {
	if err := ParseArgs(nil, []string{}); err == nil {
		t.Fatal("expected parse args to reject nil parser")
	}
}

func TestRunWithTelemetryRejectsMissingInputs(t *testing.T) {
	if err := RunWithTelemetry(context.Background(), "", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected missing service error")
	}
	if err := RunWithTelemetry(context.Background(), ServiceServer, nil); err == nil {
		t.Fatal("expected missing run function error")
	}
}
