package main

import (
	"flag"
	"fmt"
	"os"
)

func runCache() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: bytectl cache clear [variant] | stats")
		os.Exit(1)
	}
	op := os.Args[1]
	os.Args = os.Args[1:]

	fs := flag.NewFlagSet("cache "+op, flag.ExitOnError)
	fs.Parse(os.Args[1:])

	rt := openRuntime()
	defer rt.Close()

	switch op {
	case "clear":
		namespace := ""
		if fs.NArg() > 0 {
			v, ok := parseVariant(fs.Arg(0))
			if !ok {
				fmt.Fprintf(os.Stderr, "error: unknown variant %q\n", fs.Arg(0))
				os.Exit(1)
			}
			namespace = v.String()
		}
		n, err := rt.Store.ClearSnapshots(namespace)
		if err != nil {
			fail("clear cache", err)
		}
		fmt.Printf("Removed %d stored feed pages.\n", n)

	case "stats":
		n, err := rt.Store.SnapshotCount()
		if err != nil {
			fail("count cache", err)
		}
		fmt.Printf("Stored feed pages:  %d\n", n)
		fmt.Printf("Cache lifetime:     %s\n", rt.Config.CacheTTL())
		fmt.Printf("Database:           %s\n", rt.Config.DBPath())

	default:
		fmt.Fprintf(os.Stderr, "bytectl cache: unknown operation %q\n", op)
		os.Exit(1)
	}
}
