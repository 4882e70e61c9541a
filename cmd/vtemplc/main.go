package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"
	"time"

	vtempl "github.com/vtempl/vtempl-go"
)

var (
	cpuprofile   = flag.String("cpuprofile", "", "write cpu profile to file")
	memprofile   = flag.String("memprofile", "", "write memory profile to file")
	templateFile = flag.String("template", "", "template file to compile")
	scopeFile    = flag.String("scope", "", "JSON file with scope data")
	iterations   = flag.Int("iterations", 1, "number of render iterations to run")
	template     = flag.String("template-string", "", "template string to compile (alternative to template file)")
	outputDir    = flag.String("output-dir", "profile", "directory to store profile output")
)

func main() {
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	var templateContent string
	if *templateFile != "" {
		content, err := os.ReadFile(*templateFile)
		if err != nil {
			log.Fatalf("Failed to read template file: %v", err)
		}
		templateContent = string(content)
	} else if *template != "" {
		templateContent = *template
	} else {
		log.Fatal("Either --template or --template-string must be provided")
	}

	var data map[string]interface{}
	if *scopeFile != "" {
		content, err := os.ReadFile(*scopeFile)
		if err != nil {
			log.Fatalf("Failed to read scope file: %v", err)
		}
		if err := json.Unmarshal(content, &data); err != nil {
			log.Fatalf("Failed to parse scope JSON: %v", err)
		}
	}

	if *cpuprofile != "" {
		cpuFile := filepath.Join(*outputDir, *cpuprofile)
		f, err := os.Create(cpuFile)
		if err != nil {
			log.Fatalf("Failed to create CPU profile file: %v", err)
		}
		defer f.Close()

		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatalf("Failed to start CPU profile: %v", err)
		}
		defer pprof.StopCPUProfile()
		fmt.Printf("CPU profiling enabled, writing to %s\n", cpuFile)
	}

	// An example conditional so templates with if="..." props exercise the
	// directive chain.
	cfg := vtempl.Config{
		Directives: []vtempl.Directive{
			{
				Name:     "if",
				Priority: 100,
				Render: func(value string, rest vtempl.RestFunc) (string, error) {
					inner, err := rest()
					if err != nil {
						return "", err
					}
					return "(" + value + ") ? (" + inner + ") : nil", nil
				},
			},
		},
	}

	tmpl, err := vtempl.Compile(templateContent, cfg)
	if err != nil {
		log.Fatalf("Failed to compile template: %v", err)
	}
	fmt.Printf("Generated code: %s\n", tmpl.Code)

	fmt.Printf("Rendering template %d times\n", *iterations)
	scope := vtempl.NewScope(data)
	start := time.Now()

	var roots []interface{}
	for i := 0; i < *iterations; i++ {
		roots, err = tmpl.Render(vtempl.NewNode, scope)
		if err != nil {
			log.Fatalf("Failed to render template: %v", err)
		}
	}

	duration := time.Since(start)
	fmt.Printf("Time taken: %v\n", duration)
	fmt.Printf("Average time per iteration: %v\n", duration/time.Duration(*iterations))

	out, err := json.MarshalIndent(roots, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal render result: %v", err)
	}
	fmt.Println(string(out))

	if *memprofile != "" {
		memFile := filepath.Join(*outputDir, *memprofile)
		f, err := os.Create(memFile)
		if err != nil {
			log.Fatalf("Failed to create memory profile file: %v", err)
		}
		defer f.Close()

		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatalf("Failed to write memory profile: %v", err)
		}
		fmt.Printf("Memory profile written to %s\n", memFile)
	}
}
