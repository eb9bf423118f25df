package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/abelbrown/byteme/internal/api"
	"github.com/abelbrown/byteme/internal/model"
	"github.com/abelbrown/byteme/internal/store"
)

const adminUsage = `usage: bytectl admin <resource> <op> [flags]

Resources and operations:
  login                                       Exchange admin credentials for a token
  influencers list|create|update|delete
  posts       list|create|delete
  prompts     list|create|update|delete
`

// adminFlags is the union of fields any admin operation accepts.
type adminFlags struct {
	id, name, channel, platform  string
	influencer, title, url, body string
	inactive, asJSON             bool
	username, password           string
}

func runAdmin() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, adminUsage)
		os.Exit(1)
	}
	resource := os.Args[1]
	os.Args = os.Args[1:]

	if resource == "login" {
		runAdminLogin()
		return
	}

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, adminUsage)
		os.Exit(1)
	}
	op := os.Args[1]
	os.Args = os.Args[1:]

	var f adminFlags
	fs := flag.NewFlagSet("admin "+resource+" "+op, flag.ExitOnError)
	fs.StringVar(&f.id, "id", "", "Record id (update, delete)")
	fs.StringVar(&f.name, "name", "", "Name (influencers, prompts)")
	fs.StringVar(&f.channel, "channel", "", "Channel id (influencers)")
	fs.StringVar(&f.platform, "platform", "", "Platform: youtube, twitter, linkedin (influencers)")
	fs.BoolVar(&f.inactive, "inactive", false, "Mark the influencer inactive")
	fs.StringVar(&f.influencer, "influencer", "", "Influencer id (posts)")
	fs.StringVar(&f.title, "title", "", "Title (posts)")
	fs.StringVar(&f.url, "url", "", "Source URL (posts)")
	fs.StringVar(&f.body, "body", "", "Prompt body; '-' reads stdin (prompts)")
	fs.BoolVar(&f.asJSON, "json", false, "Print as JSON")
	fs.Parse(os.Args[1:])

	if f.body == "-" {
		f.body = readAll()
	}

	rt := openRuntime()
	defer rt.Close()
	if rt.AdminToken() == "" {
		fmt.Fprintln(os.Stderr, "error: no admin token")
		fmt.Fprintln(os.Stderr, "  run 'bytectl admin login' or export BYTEME_ADMIN_TOKEN=...")
		os.Exit(1)
	}

	ctx, cancel := commandContext(rt)
	defer cancel()
	admin := rt.Admin()

	var err error
	switch resource {
	case "influencers", "influencer":
		err = adminInfluencers(ctx, admin, op, f)
	case "posts", "post":
		err = adminPosts(ctx, admin, op, f)
	case "prompts", "prompt":
		err = adminPrompts(ctx, admin, op, f)
	default:
		fmt.Fprintf(os.Stderr, "bytectl admin: unknown resource %q\n\n", resource)
		fmt.Fprint(os.Stderr, adminUsage)
		os.Exit(1)
	}
	if err != nil {
		fail(resource+" "+op, err)
	}
}

func runAdminLogin() {
	fs := flag.NewFlagSet("admin login", flag.ExitOnError)
	username := fs.String("user", "", "Admin username")
	password := fs.String("pass", "", "Admin password (prompted when empty)")
	fs.Parse(os.Args[1:])

	if *username == "" {
		fmt.Fprintln(os.Stderr, "usage: bytectl admin login --user NAME [--pass PASSWORD]")
		os.Exit(1)
	}
	if *password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		*password = strings.TrimSpace(line)
	}

	rt := openRuntime()
	defer rt.Close()

	ctx, cancel := commandContext(rt)
	defer cancel()

	token, err := rt.Admin().Login(ctx, *username, *password)
	if err != nil {
		fail("admin login", err)
	}
	if err := rt.Store.Set(store.KeyAdminToken, token); err != nil {
		fail("store admin token", err)
	}
	fmt.Println("Admin token stored.")
}

func adminInfluencers(ctx context.Context, a *api.AdminClient, op string, f adminFlags) error {
	switch op {
	case "list":
		list, err := a.ListInfluencers(ctx)
		if err != nil {
			return err
		}
		if f.asJSON {
			printJSON(list)
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPLATFORM\tCHANNEL\tACTIVE")
		for _, in := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%v\n", in.ID, in.Name, in.Platform.Label(), in.ChannelID, in.Active)
		}
		return w.Flush()
	case "create", "update":
		in := model.Influencer{
			ID:        f.id,
			Name:      f.name,
			ChannelID: f.channel,
			Platform:  model.ParsePlatform(f.platform),
			Active:    !f.inactive,
		}
		if in.Name == "" || in.ChannelID == "" {
			return fmt.Errorf("--name and --channel are required")
		}
		var out model.Influencer
		var err error
		if op == "create" {
			out, err = a.CreateInfluencer(ctx, in)
		} else {
			out, err = a.UpdateInfluencer(ctx, in)
		}
		if err != nil {
			return err
		}
		printJSON(out)
		return nil
	case "delete":
		if f.id == "" {
			return fmt.Errorf("--id is required")
		}
		if err := a.DeleteInfluencer(ctx, f.id); err != nil {
			return err
		}
		fmt.Printf("Deleted influencer %s\n", f.id)
		return nil
	}
	return fmt.Errorf("unknown operation %q", op)
}

func adminPosts(ctx context.Context, a *api.AdminClient, op string, f adminFlags) error {
	switch op {
	case "list":
		list, err := a.ListPosts(ctx)
		if err != nil {
			return err
		}
		if f.asJSON {
			printJSON(list)
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tINFLUENCER\tTITLE\tURL")
		for _, p := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.InfluencerID, truncate(p.Title, 50), p.URL)
		}
		return w.Flush()
	case "create":
		p := model.Post{InfluencerID: f.influencer, Title: f.title, URL: f.url}
		if p.InfluencerID == "" || p.URL == "" {
			return fmt.Errorf("--influencer and --url are required")
		}
		out, err := a.CreatePost(ctx, p)
		if err != nil {
			return err
		}
		printJSON(out)
		return nil
	case "delete":
		if f.id == "" {
			return fmt.Errorf("--id is required")
		}
		if err := a.DeletePost(ctx, f.id); err != nil {
			return err
		}
		fmt.Printf("Deleted post %s\n", f.id)
		return nil
	}
	return fmt.Errorf("unknown operation %q", op)
}

func adminPrompts(ctx context.Context, a *api.AdminClient, op string, f adminFlags) error {
	switch op {
	case "list":
		list, err := a.ListPrompts(ctx)
		if err != nil {
			return err
		}
		if f.asJSON {
			printJSON(list)
			return nil
		}
		for _, p := range list {
			fmt.Printf("%s  %s\n    %s\n", p.ID, p.Name, truncate(strings.ReplaceAll(p.Body, "\n", " "), 70))
		}
		return nil
	case "create", "update":
		p := model.PromptTemplate{ID: f.id, Name: f.name, Body: f.body}
		if p.Name == "" || p.Body == "" {
			return fmt.Errorf("--name and --body are required")
		}
		var out model.PromptTemplate
		var err error
		if op == "create" {
			out, err = a.CreatePrompt(ctx, p)
		} else {
			out, err = a.UpdatePrompt(ctx, p)
		}
		if err != nil {
			return err
		}
		printJSON(out)
		return nil
	case "delete":
		if f.id == "" {
			return fmt.Errorf("--id is required")
		}
		if err := a.DeletePrompt(ctx, f.id); err != nil {
			return err
		}
		fmt.Printf("Deleted prompt %s\n", f.id)
		return nil
	}
	return fmt.Errorf("unknown operation %q", op)
}

func readAll() string {
	var b strings.Builder
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		b.WriteString(sc.Text())
		b.WriteByte('\n')
	}
	return strings.TrimSpace(b.String())
}
