// Command checktable validates a variable-mapping lookup table without
// running a conversion: it reports missing columns, duplicate source names,
// unknown BUFR element names, and lists which variables are mapped versus
// intentionally excluded.
//
// Usage:
//
//	checktable -table variables_bufr.csv [-template 307080]
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/promice/aws2bufr/internal/bufr"
	"github.com/promice/aws2bufr/internal/lookup"
)

func main() {
	tablePath := flag.String("table", "", "path to the lookup table CSV")
	templateID := flag.Int("template", 307080, "BUFR template to check element coverage against")
	flag.Parse()

	if *tablePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if code := run(*tablePath, *templateID); code != 0 {
		os.Exit(code)
	}
}

func run(tablePath string, templateID int) int {
	template, err := bufr.TemplateByID(templateID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	table, err := lookup.Load(tablePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	mappings := table.Mappings()
	sort.Slice(mappings, func(i, j int) bool { return mappings[i].SourceName < mappings[j].SourceName })

	var mapped, excluded, outsideTemplate int
	for _, m := range mappings {
		switch {
		case m.Excluded():
			excluded++
			fmt.Printf("  excluded  %s\n", m.SourceName)
		case !template.Contains(m.StandardName):
			// Valid element, but the chosen template has no slot for it;
			// the value would always be dropped at assembly.
			outsideTemplate++
			fmt.Printf("  no-slot   %-28s -> %s (not in template %d)\n", m.SourceName, m.StandardName, templateID)
		default:
			mapped++
			fmt.Printf("  mapped    %-28s -> %s\n", m.SourceName, m.StandardName)
		}
	}

	fmt.Printf("\n%s: %d entries (%d mapped, %d excluded, %d without a template slot)\n",
		tablePath, table.Len(), mapped, excluded, outsideTemplate)

	if outsideTemplate > 0 {
		return 1
	}
	return 0
}
