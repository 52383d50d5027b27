package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/tidwall/pretty"

	"github.com/homemade/lkdata/thirdparty"
)

const usage = `usage: lkdata <command> [flags]

commands:
  vendors   list the vendor catalog
  check     check every integration of a configuration against a graph schema
  doc       document the mappings of an integration (csv or yaml)
  flatten   flatten a vendor JSON object read from a file or stdin
  search    run an integration's search for an input node read from a file
`

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Println(".env file not loaded:", err)
	}
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "vendors":
		err = vendors()
	case "check":
		err = check(os.Args[2:])
	case "doc":
		err = doc(os.Args[2:])
	case "flatten":
		err = flatten(os.Args[2:])
	case "search":
		err = search(os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

func loadConfig(path string) (thirdparty.Config, error) {
	file, err := thirdparty.ReadYAMLFile(path)
	if err != nil {
		return thirdparty.Config{}, err
	}
	return thirdparty.LoadConfigFromEnvironment(file)
}

func printJSON(v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(pretty.Pretty(b))
	return err
}

func vendors() error {
	registry, err := thirdparty.LoadRegistry(thirdparty.DefaultCatalog())
	if err != nil {
		return err
	}
	for _, v := range registry.Vendors() {
		fmt.Printf("%s\t%s\t%s\t%s\n", v.Key, v.Strategy, v.CountryCode().String(), v.Name)
	}
	return nil
}

func check(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	configPath := fs.String("config", "config.json", "plugin configuration file")
	schemaPath := fs.String("schema", "schema.json", "graph schema snapshot")
	_ = fs.Parse(args)

	config, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(*schemaPath)
	if err != nil {
		return err
	}
	schema, err := thirdparty.ParseGraphSchema(data)
	if err != nil {
		return err
	}
	registry, err := thirdparty.LoadRegistry(thirdparty.DefaultCatalog())
	if err != nil {
		return err
	}

	failed := 0
	for _, integration := range config.Integrations {
		if err := thirdparty.CheckIntegration(context.Background(), integration, registry, schema); err != nil {
			failed++
			fmt.Printf("integration %s (%s): FAILED\n%v\n", integration.ID, integration.VendorKey, err)
			continue
		}
		fmt.Printf("integration %s (%s): OK\n", integration.ID, integration.VendorKey)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d integrations failed the check", failed, len(config.Integrations))
	}
	return nil
}

func doc(args []string) error {
	fs := flag.NewFlagSet("doc", flag.ExitOnError)
	configPath := fs.String("config", "config.json", "plugin configuration file")
	integrationID := fs.String("integration", "", "integration id")
	format := fs.String("format", "csv", "output format: csv or yaml")
	_ = fs.Parse(args)

	config, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	model, err := config.IntegrationByID(*integrationID)
	if err != nil {
		return err
	}
	registry, err := thirdparty.LoadRegistry(thirdparty.DefaultCatalog())
	if err != nil {
		return err
	}
	integration, err := thirdparty.NewVendorIntegration(model, registry)
	if err != nil {
		return err
	}
	documentation := thirdparty.GenerateMappingDocumentation(integration)

	var out string
	switch *format {
	case "csv":
		out, err = documentation.FormatCSV()
	case "yaml":
		out, err = documentation.FormatYAML()
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func flatten(args []string) error {
	fs := flag.NewFlagSet("flatten", flag.ExitOnError)
	_ = fs.Parse(args)

	var data []byte
	var err error
	if fs.NArg() > 0 {
		data, err = os.ReadFile(fs.Arg(0))
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return err
	}
	record, err := thirdparty.Flatten(data)
	if err != nil {
		return err
	}
	return printJSON(record)
}

// fileNodes serves a single input node read from disk.
type fileNodes struct {
	node thirdparty.Node
}

func (f fileNodes) GetNode(ctx context.Context, sourceKey string, nodeID string) (thirdparty.Node, error) {
	return f.node, nil
}

func search(args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", "config.json", "plugin configuration file")
	integrationID := fs.String("integration", "", "integration id")
	nodePath := fs.String("node", "node.json", "input node file")
	maxResults := fs.Int("max", thirdparty.DefaultMaxResults, "maximum number of results")
	record := fs.String("record", "", "record vendor requests and responses under this directory")
	_ = fs.Parse(args)

	config, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(*nodePath)
	if err != nil {
		return err
	}
	node, err := thirdparty.ParseNode(data)
	if err != nil {
		return err
	}
	model, err := config.IntegrationByID(*integrationID)
	if err != nil {
		return err
	}
	registry, err := thirdparty.NewDefaultRegistry(&thirdparty.DriverContext{
		RecordRequests: *record != "",
		RecordDir:      *record,
	})
	if err != nil {
		return err
	}

	searcher := thirdparty.Searcher{Config: config, Registry: registry, Nodes: fileNodes{node: node}}
	response := searcher.Search(context.Background(), thirdparty.SearchOptions{
		IntegrationID: model.ID,
		NodeID:        node.ID,
		SourceKey:     model.SourceKey,
		MaxResults:    *maxResults,
	})
	if err := printJSON(response); err != nil {
		return err
	}
	if response.Error != nil {
		return response.Error
	}
	return nil
}
