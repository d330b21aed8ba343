// ABOUTME: Interactive operator console for the support-chat backend.
// ABOUTME: Drives the channel editor, collection manager and chat sessions.

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/golang-jwt/jwt/v5"

	"github.com/smartguy05/support-channel-admin/internal/api"
	"github.com/smartguy05/support-channel-admin/internal/cache"
	"github.com/smartguy05/support-channel-admin/internal/chat"
	"github.com/smartguy05/support-channel-admin/internal/config"
	"github.com/smartguy05/support-channel-admin/internal/editor"
	"github.com/smartguy05/support-channel-admin/internal/kb"
)

const banner = `
                                       _              _           _
 ___ _   _ _ __  _ __   ___  _ __ __ _| |_        ___| |__   __ _| |_
/ __| | | | '_ \| '_ \ / _ \| '__/ _' | __|_____ / __| '_ \ / _' | __|
\__ \ |_| | |_) | |_) | (_) | | | (_| | ||_____| (__| | | | (_| | |_
|___/\__,_| .__/| .__/ \___/|_|  \__,_|\__|      \___|_| |_|\__,_|\__|
          |_|   |_|
`

func main() {
	configPath := flag.String("config", defaultConfigPath(), "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Logging)
	token := getToken(cfg.Auth.TokenFile)
	warnExpiredToken(token)

	client := api.New(cfg.Services.ChannelURL, cfg.Services.KbURL, token, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	console := newConsole(client, logger)
	if err := console.run(ctx); err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nGoodbye!")
}

// defaultConfigPath resolves the config file location: $SUPPORT_ADMIN_CONFIG,
// then ./config.yaml, then ~/.config/support-admin/config.yaml.
func defaultConfigPath() string {
	if p := os.Getenv("SUPPORT_ADMIN_CONFIG"); p != "" {
		return p
	}
	if _, err := os.Stat("config.yaml"); err == nil {
		return "config.yaml"
	}
	return filepath.Join(configDir(), "support-admin", "config.yaml")
}

func configDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, ".config")
}

// getToken returns the API token from SUPPORT_ADMIN_TOKEN or a token file.
func getToken(override string) string {
	if token := os.Getenv("SUPPORT_ADMIN_TOKEN"); token != "" {
		return token
	}

	tokenPath := override
	if tokenPath == "" {
		tokenPath = filepath.Join(configDir(), "support-admin", "token")
	}
	data, err := os.ReadFile(tokenPath)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// warnExpiredToken peeks at the token's expiry claim when it parses as a
// JWT. The signature is not checked; the server does that. This only
// saves the operator from a session of confusing 401s.
func warnExpiredToken(token string) {
	if token == "" {
		return
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return // not a JWT, nothing to inspect
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return
	}
	if exp.Before(time.Now()) {
		color.Yellow("Warning: configured token expired at %s\n", exp.Format(time.RFC3339))
	}
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{Level: level}

	// Logs go to stderr so they do not interleave with console output.
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// terminalConfirmer asks destructive-action questions on the terminal.
type terminalConfirmer struct {
	scanner *bufio.Scanner
}

func (c *terminalConfirmer) Confirm(prompt string) bool {
	yellow := color.New(color.FgYellow)
	yellow.Printf("%s [y/N] ", prompt)
	if !c.scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(c.scanner.Text()))
	return answer == "y" || answer == "yes"
}

// console wires the core components to the interactive loop.
type console struct {
	client  *api.Client
	editor  *editor.Editor
	kb      *kb.Manager
	scanner *bufio.Scanner
	session *chat.Session
	logger  *slog.Logger
}

func newConsole(client *api.Client, logger *slog.Logger) *console {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), 1024*1024) // 1MB max input
	confirm := &terminalConfirmer{scanner: scanner}
	return &console{
		client:  client,
		editor:  editor.New(client, cache.NewChannels(), confirm, logger),
		kb:      kb.New(client, confirm, logger),
		scanner: scanner,
		logger:  logger,
	}
}

func (c *console) run(ctx context.Context) error {
	cyan := color.New(color.FgCyan)
	cyan.Print(banner)
	fmt.Println()

	if err := c.editor.Load(ctx); err != nil {
		color.Red("Warning: %v\n", err)
	}
	if err := c.kb.Refresh(ctx); err != nil {
		color.Red("Warning: %v\n", err)
	}
	fmt.Println("Type 'help' for commands, 'quit' to exit.")
	fmt.Println()

	for {
		c.printPrompt()
		if !c.scanner.Scan() {
			return c.scanner.Err()
		}
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line := strings.TrimSpace(c.scanner.Text())
		if line == "" {
			continue
		}

		// Inside a chat panel, plain input is a chat turn; /close ends it.
		if c.session != nil && !strings.HasPrefix(line, "/") {
			c.chatTurn(ctx, line)
			continue
		}
		line = strings.TrimPrefix(line, "/")

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		if cmd == "quit" || cmd == "exit" || cmd == "q" {
			return nil
		}
		if err := c.dispatch(ctx, cmd, args); err != nil {
			color.Red("Error: %v\n", err)
		}
	}
}

func (c *console) printPrompt() {
	green := color.New(color.FgGreen)
	switch {
	case c.session != nil:
		green.Printf("[chat %s]> ", truncate(c.session.ChannelID(), 8))
	case c.editor.Mode() == editor.ModeAdding:
		green.Print("[add]> ")
	case c.editor.Mode() == editor.ModeEditing:
		green.Printf("[edit %s]> ", truncate(c.editor.EditingID(), 8))
	case c.kb.Selected() != "":
		green.Printf("[%s]> ", c.kb.Selected())
	default:
		green.Print("> ")
	}
}

func (c *console) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	// Channel editor
	case "channels", "ls":
		return c.listChannels()
	case "add":
		return c.startAdd()
	case "edit":
		return c.startEdit(args)
	case "set":
		return c.setField(args)
	case "kb":
		return c.bindingCommand(ctx, args)
	case "show":
		return c.showDraft()
	case "submit":
		return c.submit(ctx)
	case "cancel":
		return c.editor.Cancel()
	case "delete":
		return c.deleteChannel(ctx, args)

	// Chat session
	case "open":
		return c.openChat(ctx, args)
	case "close":
		return c.closeChat()

	// Collection manager
	case "collections":
		return c.listCollections()
	case "select":
		return c.selectCollection(ctx, args)
	case "docs":
		return c.listDocuments()
	case "upload":
		return c.upload(ctx, args)
	case "rmdoc":
		return c.deleteDocument(ctx, args)
	case "newcol":
		return c.createCollection(ctx, args)
	case "delcol":
		return c.deleteCollection(ctx)
	case "key":
		return c.showKey()
	case "issue":
		return c.issueKey(ctx)

	case "help", "h":
		printHelp()
		return nil
	default:
		return fmt.Errorf("unknown command: %s (try 'help')", cmd)
	}
}

func printHelp() {
	yellow := color.New(color.FgYellow)
	yellow.Println("Channels:")
	fmt.Println("  channels                 List channel configs")
	fmt.Println("  add                      Open a new channel draft")
	fmt.Println("  edit <id>                Edit a channel (working copy)")
	fmt.Println("  set <field> <value>      Set a draft field (name, model, max_tokens,")
	fmt.Println("                           temperature, max_context_length, system_prompt,")
	fmt.Println("                           initial_message)")
	fmt.Println("  kb add                   Append an unresolved binding")
	fmt.Println("  kb rm <i>                Remove binding at position")
	fmt.Println("  kb set <i> <field> <v>   Set a binding field by hand")
	fmt.Println("  kb pick <i> <collection> Resolve a binding via the collection picker")
	fmt.Println("  show                     Show the open draft")
	fmt.Println("  submit                   Submit the open draft")
	fmt.Println("  cancel                   Discard the open draft")
	fmt.Println("  delete <id>              Delete a channel (asks first)")
	fmt.Println()
	yellow.Println("Chat verification:")
	fmt.Println("  open <id>                Open a chat session against a channel")
	fmt.Println("  close (or /close)        Close the chat session")
	fmt.Println("  <text>                   While a session is open, plain input is a turn")
	fmt.Println()
	yellow.Println("Collections:")
	fmt.Println("  collections              List collections")
	fmt.Println("  select [name]            Select a collection (no name clears)")
	fmt.Println("  docs                     List the selection's documents")
	fmt.Println("  upload <file...>         Upload a file batch (max 20)")
	fmt.Println("  rmdoc <filename>         Delete a document (asks first)")
	fmt.Println("  newcol <name> [desc]     Create a collection")
	fmt.Println("  delcol                   Delete the selected collection (asks first)")
	fmt.Println("  key                      Show the selection's access key")
	fmt.Println("  issue                    Issue an access key (only when absent)")
	fmt.Println()
	fmt.Println("  help, quit")
}

func (c *console) listChannels() error {
	channels := c.editor.Channels()
	if len(channels) == 0 {
		fmt.Println("No channels configured.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tNAME\tMODEL\tTOKENS\tTEMP\tCTX\tBINDINGS")
	fmt.Fprintln(w, "  --\t----\t-----\t------\t----\t---\t--------")
	for _, ch := range channels {
		bindings := make([]string, len(ch.Bindings))
		for i, b := range ch.Bindings {
			bindings[i] = b.Collection
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%d\t%.1f\t%d\t%s\n",
			truncate(ch.ID, 12), truncate(ch.Name, 20), truncate(ch.Model, 16),
			ch.MaxTokens, ch.Temperature, ch.MaxContextLength,
			strings.Join(bindings, ","))
	}
	return w.Flush()
}

func (c *console) startAdd() error {
	if err := c.editor.StartAdd(); err != nil {
		return err
	}
	fmt.Println("New channel draft opened. Use 'set', 'kb', then 'submit' or 'cancel'.")
	return nil
}

func (c *console) startEdit(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: edit <id>")
	}
	id, err := c.resolveChannelID(args[0])
	if err != nil {
		return err
	}
	if err := c.editor.StartEdit(id); err != nil {
		return err
	}
	if c.session != nil {
		// Edit mode suppresses chat globally; close the open panel.
		c.session = nil
		fmt.Println("Chat session closed.")
	}
	fmt.Printf("Editing channel %s. Use 'set', 'kb', then 'submit' or 'cancel'.\n", id)
	return nil
}

// resolveChannelID accepts a full id or an unambiguous prefix.
func (c *console) resolveChannelID(arg string) (string, error) {
	var match string
	for _, ch := range c.editor.Channels() {
		if ch.ID == arg {
			return arg, nil
		}
		if strings.HasPrefix(ch.ID, arg) {
			if match != "" {
				return "", fmt.Errorf("ambiguous channel id %q", arg)
			}
			match = ch.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("no channel matches %q", arg)
	}
	return match, nil
}

// setField coerces operator input to the draft field's type.
func (c *console) setField(args []string) error {
	draft := c.editor.Working()
	if draft == nil {
		return fmt.Errorf("no draft open (use 'add' or 'edit')")
	}
	if len(args) < 2 {
		return fmt.Errorf("usage: set <field> <value>")
	}
	field, value := args[0], strings.Join(args[1:], " ")

	switch field {
	case "name":
		draft.Name = value
	case "model":
		draft.Model = value
	case "system_prompt":
		draft.SystemPrompt = value
	case "initial_message":
		draft.InitialMessage = value
	case "max_tokens":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("max_tokens must be an integer: %w", err)
		}
		draft.MaxTokens = n
	case "max_context_length":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("max_context_length must be an integer: %w", err)
		}
		draft.MaxContextLength = n
	case "temperature":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("temperature must be a number: %w", err)
		}
		draft.Temperature = f
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}

func (c *console) bindingCommand(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: kb <add|rm|set|pick> ...")
	}
	sub, args := args[0], args[1:]

	switch sub {
	case "add":
		if err := c.editor.AddBinding(); err != nil {
			return err
		}
		fmt.Println("Binding added (unresolved). Use 'kb pick <i> <collection>'.")
		return nil

	case "rm":
		if len(args) < 1 {
			return fmt.Errorf("usage: kb rm <i>")
		}
		i, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("binding index must be an integer: %w", err)
		}
		return c.editor.RemoveBinding(i)

	case "set":
		if len(args) < 3 {
			return fmt.Errorf("usage: kb set <i> <collection|api_key> <value>")
		}
		i, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("binding index must be an integer: %w", err)
		}
		return c.editor.SetBindingField(i, editor.BindingField(args[1]), strings.Join(args[2:], " "))

	case "pick":
		if len(args) < 2 {
			return fmt.Errorf("usage: kb pick <i> <collection>")
		}
		i, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("binding index must be an integer: %w", err)
		}
		if err := c.editor.ResolveBinding(ctx, i, args[1]); err != nil {
			return fmt.Errorf("%w (reselect to retry)", err)
		}
		fmt.Printf("Binding %d resolved to %q.\n", i, args[1])
		return nil

	default:
		return fmt.Errorf("unknown kb subcommand: %s", sub)
	}
}

func (c *console) showDraft() error {
	draft := c.editor.Working()
	if draft == nil {
		return fmt.Errorf("no draft open")
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	if draft.ID != "" {
		cyan.Printf("  Editing %s\n", draft.ID)
	} else {
		cyan.Println("  New channel")
	}
	fmt.Printf("  name:               %s\n", draft.Name)
	fmt.Printf("  model:              %s\n", draft.Model)
	fmt.Printf("  max_tokens:         %d\n", draft.MaxTokens)
	fmt.Printf("  temperature:        %.2f\n", draft.Temperature)
	fmt.Printf("  max_context_length: %d\n", draft.MaxContextLength)
	fmt.Printf("  system_prompt:      %s\n", truncate(draft.SystemPrompt, 60))
	fmt.Printf("  initial_message:    %s\n", truncate(draft.InitialMessage, 60))
	for i, b := range draft.Bindings {
		status := "unresolved"
		if b.Status == editor.BindingResolved {
			status = "resolved"
		}
		fmt.Printf("  binding %d:          collection=%q key=%s (%s)\n",
			i, b.Collection, truncate(b.AccessKey, 12), status)
	}
	fmt.Println()
	return nil
}

func (c *console) submit(ctx context.Context) error {
	ch, err := c.editor.Submit(ctx)
	if err != nil {
		return err
	}
	green := color.New(color.FgGreen)
	green.Printf("✓ Saved channel %s (%s)\n", ch.Name, ch.ID)
	return nil
}

func (c *console) deleteChannel(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: delete <id>")
	}
	id, err := c.resolveChannelID(args[0])
	if err != nil {
		return err
	}
	deleted, err := c.editor.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Println("Delete canceled.")
		return nil
	}
	color.Green("✓ Deleted channel %s\n", id)
	return nil
}

func (c *console) openChat(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: open <id>")
	}
	if !c.editor.CanActivateChat() {
		// Activating a row during an edit closes an open panel instead.
		if c.session != nil {
			c.session = nil
			fmt.Println("Chat session closed (edit in progress).")
			return nil
		}
		return fmt.Errorf("finish or cancel the edit before opening a chat session")
	}
	id, err := c.resolveChannelID(args[0])
	if err != nil {
		return err
	}

	var initial string
	for _, ch := range c.editor.Channels() {
		if ch.ID == id {
			initial = ch.InitialMessage
			break
		}
	}

	c.session = chat.New(c.client, id, initial, c.logger)
	cyan := color.New(color.FgCyan)
	cyan.Printf("Chat session open against %s. Plain input sends a turn; /close ends it.\n", id)
	for _, msg := range c.session.Messages() {
		c.printMessage(msg)
	}
	return nil
}

func (c *console) closeChat() error {
	if c.session == nil {
		return fmt.Errorf("no chat session open")
	}
	// Session state is discarded with the panel; nothing persists.
	c.session = nil
	fmt.Println("Chat session closed.")
	return nil
}

func (c *console) chatTurn(ctx context.Context, input string) {
	if err := c.session.Submit(ctx, input); err != nil {
		color.Red("Error: %v\n", err)
		return
	}
	messages := c.session.Messages()
	if len(messages) > 0 {
		c.printMessage(messages[len(messages)-1])
	}
}

func (c *console) printMessage(msg chat.Message) {
	if msg.Sender == chat.SenderUser {
		color.New(color.FgBlue).Printf("you: %s\n", msg.Text)
		return
	}
	color.New(color.FgGreen).Print("bot: ")
	fmt.Println(msg.Text)
}

func (c *console) listCollections() error {
	collections := c.kb.Collections()
	if len(collections) == 0 {
		fmt.Println("No collections.")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  NAME\tDESCRIPTION")
	fmt.Fprintln(w, "  ----\t-----------")
	for _, col := range collections {
		marker := " "
		if col.Name == c.kb.Selected() {
			marker = "*"
		}
		fmt.Fprintf(w, " %s%s\t%s\n", marker, col.Name, truncate(col.Description, 50))
	}
	return w.Flush()
}

func (c *console) selectCollection(ctx context.Context, args []string) error {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	if err := c.kb.Select(ctx, name); err != nil {
		return err
	}
	if name == "" {
		fmt.Println("Selection cleared.")
		return nil
	}
	fmt.Printf("Selected %q: %d documents", name, len(c.kb.Documents()))
	if _, ok := c.kb.AccessKey(); ok {
		fmt.Print(", access key present")
	} else {
		fmt.Print(", no access key")
	}
	fmt.Println()
	return nil
}

func (c *console) listDocuments() error {
	if c.kb.Selected() == "" {
		return fmt.Errorf("no collection selected")
	}
	docs := c.kb.Documents()
	if len(docs) == 0 {
		fmt.Println("No documents found.")
		return nil
	}
	for _, doc := range docs {
		fmt.Printf("  %s\n", doc)
	}
	return nil
}

func (c *console) upload(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: upload <file...>")
	}

	files := make([]api.UploadFile, 0, len(args))
	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		files = append(files, api.UploadFile{Filename: filepath.Base(path), Reader: f})
	}

	if c.kb.Uploading() {
		fmt.Println("(another batch is still uploading)")
	}
	if err := c.kb.Upload(ctx, files); err != nil {
		return err
	}
	color.Green("✓ Uploaded %d file(s)\n", len(files))
	return nil
}

func (c *console) deleteDocument(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: rmdoc <filename>")
	}
	deleted, err := c.kb.DeleteDocument(ctx, args[0])
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Println("Delete canceled.")
		return nil
	}
	color.Green("✓ Deleted %s\n", args[0])
	return nil
}

func (c *console) createCollection(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: newcol <name> [description]")
	}
	name := args[0]
	description := strings.Join(args[1:], " ")
	if err := c.kb.Create(ctx, name, description); err != nil {
		return err
	}
	color.Green("✓ Created collection %q\n", name)
	return nil
}

func (c *console) deleteCollection(ctx context.Context) error {
	name := c.kb.Selected()
	deleted, err := c.kb.Delete(ctx)
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Println("Delete canceled.")
		return nil
	}
	color.Green("✓ Deleted collection %q\n", name)
	return nil
}

func (c *console) showKey() error {
	if c.kb.Selected() == "" {
		return fmt.Errorf("no collection selected")
	}
	key, ok := c.kb.AccessKey()
	if !ok {
		fmt.Println("No access key set yet (use 'issue').")
		return nil
	}
	fmt.Printf("Access key: %s\n", key)
	return nil
}

func (c *console) issueKey(ctx context.Context) error {
	key, err := c.kb.IssueKey(ctx)
	if err != nil {
		return err
	}
	color.Green("✓ Access key issued: %s\n", key)
	return nil
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
