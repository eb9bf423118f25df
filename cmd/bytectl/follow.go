package main

import (
	"flag"
	"fmt"
	"os"
)

func runFollow(follow bool) {
	name := "follow"
	if !follow {
		name = "unfollow"
	}
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Parse(os.Args[1:])

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: bytectl %s <channel-id>\n", name)
		os.Exit(1)
	}
	channel := fs.Arg(0)

	rt := openRuntime()
	defer rt.Close()
	requireSignedIn(rt)

	ctx, cancel := commandContext(rt)
	defer cancel()

	if err := rt.Follow.Initialize(ctx); err != nil {
		fail("load followed channels", err)
	}
	current := rt.Follow.IsFollowing(channel)
	if current == follow {
		if follow {
			fmt.Printf("Already following %s.\n", channel)
		} else {
			fmt.Printf("Not following %s.\n", channel)
		}
		return
	}
	if err := rt.Follow.Toggle(ctx, channel, current); err != nil {
		fail(name+" "+channel, err)
	}
	fmt.Printf("%s: %s (now following %d channels)\n", name, channel, len(rt.Follow.Following()))
}

func runFollowing() {
	fs := flag.NewFlagSet("following", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "Print as JSON")
	fs.Parse(os.Args[1:])

	rt := openRuntime()
	defer rt.Close()
	requireSignedIn(rt)

	ctx, cancel := commandContext(rt)
	defer cancel()

	if err := rt.Follow.Initialize(ctx); err != nil {
		fail("load followed channels", err)
	}
	ids := rt.Follow.Following()
	if *asJSON {
		printJSON(ids)
		return
	}
	fmt.Printf("Following %d channels:\n", len(ids))
	for _, id := range ids {
		fmt.Printf("  %s\n", id)
	}
}
