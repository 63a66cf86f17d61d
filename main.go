package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"soulfix/internal/api"
	"soulfix/internal/chat"
	"soulfix/internal/config"
	"soulfix/internal/events"
	"soulfix/internal/match"
	"soulfix/internal/models"
	"soulfix/internal/storage"
	"soulfix/internal/swipe"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func run(ctx context.Context) error {
	email := flag.String("email", "", "Email to log in with before running")
	password := flag.String("password", "", "Password for -email")
	chatWith := flag.String("chat", "", "Match id: open a terminal chat for this conversation")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	st, err := storage.NewBboltStorage(cfg.DBFile)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	client := api.NewClient(ctx, api.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.Timeout,
		Prefs:   st,
		Logger:  logger,
	})
	mock := match.NewStore(st, logger)
	matcher := match.NewMatcher(client, mock, logger)

	if *email != "" {
		resp, err := client.Login(ctx, *email, *password)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		logger.Info("logged in", "user", resp.User.Name)
	}

	if *chatWith != "" {
		return runChat(ctx, cfg, st, matcher, *chatWith, logger)
	}

	return showFeed(ctx, st, matcher, logger)
}

// showFeed prints today's swipe batch and the current match list.
func showFeed(ctx context.Context, st *storage.BboltStorage, matcher *match.Matcher, logger *slog.Logger) error {
	filters, err := st.Filters()
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return err
	}

	session := swipe.NewSession(matcher, st, logger)
	if err := session.Load(ctx, filters); err != nil {
		return err
	}

	fmt.Printf("Today's picks (%d swipes left):\n", session.Remaining())
	for _, p := range session.Batch() {
		fmt.Printf("  %s  %s, %d: %s\n", p.ID, p.Name, p.Age, p.Bio)
	}
	if session.Exhausted() {
		fmt.Println("  No more profiles today. Come back tomorrow!")
	}

	matches, err := matcher.Matches(ctx)
	if err != nil {
		return err
	}
	fmt.Println("\nMatches:")
	for _, m := range matches {
		marker := " "
		if m.Unread {
			marker = "*"
		}
		fmt.Printf("%s %s  %s: %s (%s)\n", marker, m.ID, m.Name, m.LastMessage, m.Timestamp)
	}
	return nil
}

// runChat opens one conversation in the terminal: inbound events print as
// they arrive, lines typed on stdin are sent.
func runChat(ctx context.Context, cfg *config.Config, st *storage.BboltStorage, matcher *match.Matcher, matchID string, logger *slog.Logger) error {
	selfID, err := st.Pref(storage.PrefUserID)
	if err != nil {
		return errors.New("not logged in: run with -email/-password first")
	}

	channel, err := events.Dial(ctx, cfg.SocketURL, logger)
	if err != nil {
		return fmt.Errorf("event channel dial failed: %w", err)
	}

	session := chat.NewSession(chat.Config{
		MatchID: matchID,
		SelfID:  selfID,
		Emitter: channel,
		Matches: matcher,
		Logger:  logger,
	})
	defer session.Close()

	suggester := chat.NewSuggester(time.Now().UnixNano())

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return channel.Run(gCtx)
	})

	g.Go(func() error {
		for ev := range channel.Events() {
			session.HandleEvent(ev)
			switch ev.Type {
			case models.ServerEventChatHistory:
				history := session.Messages()
				for _, m := range history {
					printMessage(m, selfID)
				}
				if len(history) == 0 {
					fmt.Printf("  icebreakers: %s\n", strings.Join(suggester.Icebreakers(3), " | "))
				}
			case models.ServerEventReceiveMessage:
				if last, ok := session.LastInbound(); ok {
					printMessage(last, selfID)
					fmt.Printf("  suggested: %s\n", strings.Join(suggester.Replies(last.Text, models.Profile{}), " | "))
				}
			case models.ServerEventTyping:
				if session.PeerTyping() {
					fmt.Println("  peer is typing...")
				}
			}
		}
		return nil
	})

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	g.Go(func() error {
		for {
			select {
			case line, ok := <-lines:
				if !ok {
					return context.Canceled
				}
				text := strings.TrimSpace(line)
				if text == "" {
					continue
				}
				if text == "/quit" {
					return context.Canceled
				}
				session.Send(text)
			case <-gCtx.Done():
				return nil
			}
		}
	})

	channel.Join(matchID)
	fmt.Printf("Chatting in conversation %s. Type /quit to leave.\n", matchID)

	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printMessage(m models.Message, selfID string) {
	who := "them"
	if m.SenderID == selfID {
		who = "you"
	}
	if m.IsImage() {
		fmt.Printf("[%s] %s: (photo) %s\n", m.Timestamp.Format("15:04"), who, m.ImageFile())
		return
	}
	fmt.Printf("[%s] %s: %s\n", m.Timestamp.Format("15:04"), who, m.Text)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "soulfix: %v\n", err)
		os.Exit(1)
	}
}
