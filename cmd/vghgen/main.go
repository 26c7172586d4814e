package main

import (
	"flag"
	"log"
	"path/filepath"

	"github.com/vugu/vghistory/rgen"
)

func main() {

	packageName := flag.String("p", "", "The package name to use.  If unspecified it is derived from the output directory name")
	outDir := flag.String("o", "", "Output directory.  Defaults to the directory of each route file")
	q := flag.Bool("q", false, "Only print information upon error (quiet mode)")

	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		args = []string{"routes.toml"} // default file in current dir
	}

	if (*packageName != "" || *outDir != "") && len(args) > 1 {
		log.Fatalf("-p and -o are only valid with a single route file")
	}

	for _, arg := range args {

		in, err := filepath.Abs(arg)
		if err != nil {
			log.Fatalf("Error converting %q to absolute path: %v", arg, err)
		}

		if !*q {
			log.Printf("Processing routes from: %s", arg)
		}

		outPath, err := rgen.New().
			SetInput(in).
			SetDir(*outDir).
			SetPackageName(*packageName).
			Generate()
		if err != nil {
			log.Fatal(err)
		}

		if !*q {
			log.Printf("Wrote %s", outPath)
		}

	}

}
