package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
)

func runLogin() {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	token := fs.String("token", "", "Session token to store (reads stdin when empty and --google is unset)")
	google := fs.String("google", "", "Google ID token to exchange for a session")
	fs.Parse(os.Args[1:])

	rt := openRuntime()
	defer rt.Close()

	session := strings.TrimSpace(*token)
	switch {
	case *google != "":
		ctx, cancel := commandContext(rt)
		defer cancel()
		t, err := rt.Client.ExchangeGoogleToken(ctx, *google)
		if err != nil {
			fail("google sign-in", err)
		}
		session = t
	case session == "":
		fmt.Fprint(os.Stderr, "Session token: ")
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		session = strings.TrimSpace(line)
	}

	if session == "" {
		fmt.Fprintln(os.Stderr, "error: no token given")
		os.Exit(1)
	}
	if err := rt.SignIn(session); err != nil {
		fail("store token", err)
	}

	// Verify the token works; a rejected token is still stored so the
	// user can inspect it, but they are told.
	ctx, cancel := commandContext(rt)
	defer cancel()
	if err := rt.Follow.Initialize(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: token stored but the backend rejected it: %v\n", err)
		return
	}
	fmt.Printf("Signed in. Following %d channels.\n", len(rt.Follow.Following()))
}

func runLogout() {
	fs := flag.NewFlagSet("logout", flag.ExitOnError)
	fs.Parse(os.Args[1:])

	rt := openRuntime()
	defer rt.Close()

	if err := rt.SignOut(); err != nil {
		fail("sign out", err)
	}
	fmt.Println("Signed out.")
}
