package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

func runCategories() {
	fs := flag.NewFlagSet("categories", flag.ExitOnError)
	available := fs.Bool("available", false, "List categories offered by the backend")
	reset := fs.Bool("clear", false, "Clear the selection (show all categories)")
	fs.Parse(os.Args[1:])

	rt := openRuntime()
	defer rt.Close()

	ctx, cancel := commandContext(rt)
	defer cancel()

	if *available {
		cats, err := rt.Client.AvailableCategories(ctx)
		if err != nil {
			fail("list categories", err)
		}
		for _, c := range cats {
			fmt.Printf("  %-20s %s\n", c.ID, c.Name)
		}
		return
	}

	if *reset || fs.NArg() > 0 {
		var ids []string
		for _, arg := range fs.Args() {
			ids = append(ids, splitList(arg)...)
		}
		saved, err := rt.Prefs.Update(ctx, ids)
		if err != nil {
			fail("update categories", err)
		}
		where := "locally"
		if rt.SignedIn() {
			where = "to your account"
		}
		fmt.Printf("Saved %d categories %s: %s\n", len(saved), where, strings.Join(saved, ", "))
		return
	}

	ids, err := rt.Prefs.Load(ctx)
	if err != nil {
		fail("load categories", err)
	}
	if len(ids) == 0 {
		fmt.Println("No categories selected (showing all).")
		return
	}
	fmt.Println(strings.Join(ids, "\n"))
}
