package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	models "github.com/chrisdamba/daytrip/internal"
	"github.com/chrisdamba/daytrip/internal/auth"
	"github.com/chrisdamba/daytrip/internal/booking"
	"github.com/chrisdamba/daytrip/internal/carousel"
	"github.com/chrisdamba/daytrip/internal/controller"
	"github.com/chrisdamba/daytrip/internal/inflight"
	"github.com/chrisdamba/daytrip/internal/payment"
	"github.com/chrisdamba/daytrip/internal/ports"
	"github.com/chrisdamba/daytrip/internal/session"
	"github.com/chrisdamba/daytrip/internal/view"
	"github.com/chrisdamba/daytrip/pkg/config"
	"github.com/chrisdamba/daytrip/pkg/health"
)

const helpText = `commands:
  search [keyword] [category]   search attractions (全部分類 for any category)
  more                          load the next page
  mrts [station]                list stations, or search by one
  categories                    list categories
  open <id>                     open an attraction
  next | prev                   move through its images
  time morning|afternoon        pick the tour time
  book <YYYY-MM-DD>             book the open attraction
  booking                       show your booking
  cancel                        cancel your booking
  card <number> <MM/YY> <ccv>   enter card details
  pay <name> <email> <phone>    pay for your booking
  order <number>                show an order
  login <email> <password>
  signup <name> <email> <password>
  logout | whoami | status | help | quit`

type ShellConfig struct {
	In       io.Reader
	Out      io.Writer
	API      ports.Gateway
	Store    *session.Store
	Reporter *health.Reporter
	Payment  config.PaymentConfig
	Fetcher  carousel.Fetcher
	Logger   *slog.Logger
}

// Shell is the line-oriented front end. It plays the browser: it owns the
// current page, navigation, alerts, the confirm prompt and the spinner.
type Shell struct {
	in       *bufio.Reader
	out      io.Writer
	ctx      context.Context
	page     string
	store    *session.Store
	api      ports.Gateway
	reporter *health.Reporter
	card     *payment.CardFields
	dialog   *auth.Dialog
	log      *slog.Logger

	index      *controller.Index
	attraction *controller.Attraction
	booking    *controller.Booking
	thankyou   *controller.Thankyou
	auth       *controller.Auth
}

func NewShell(cfg ShellConfig) *Shell {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	s := &Shell{
		in:       bufio.NewReader(cfg.In),
		out:      cfg.Out,
		ctx:      context.Background(),
		store:    cfg.Store,
		api:      cfg.API,
		reporter: cfg.Reporter,
		log:      log,
	}

	s.card = payment.NewCardFields(
		payment.WithPrime(cfg.Payment.Prime),
		payment.WithMaskRange(cfg.Payment.MaskBegin, cfg.Payment.MaskEnd),
	)
	s.dialog = auth.NewDialog(cfg.API, cfg.Store,
		auth.WithLogger(log),
		auth.OnLogin(func(ctx context.Context) { s.reload() }),
		auth.OnLogout(func(ctx context.Context) { s.Navigate("/") }),
	)
	flow := booking.NewFlow(cfg.API, inflight.NewGuard(s),
		booking.WithConfirmer(s),
		booking.WithPaymentWidget(s.card),
		booking.WithReauthenticator(s.dialog),
		booking.WithLogger(log),
	)

	deps := controller.Deps{
		API:       cfg.API,
		Auth:      s.dialog,
		Flow:      flow,
		Navigator: s,
		Alerter:   s,
		Render:    view.NewRenderContext(cfg.Out),
		Logger:    log,
	}
	s.index = controller.NewIndex(deps)
	s.attraction = controller.NewAttraction(deps).WithImageFetcher(cfg.Fetcher)
	s.booking = controller.NewBooking(deps)
	s.thankyou = controller.NewThankyou(deps)
	s.auth = controller.NewAuth(deps)
	return s
}

// Run reads commands until quit or end of input.
func (s *Shell) Run(ctx context.Context) error {
	s.ctx = ctx
	s.auth.Navbar(ctx)
	s.Navigate("/")

	for {
		fmt.Fprint(s.out, "> ")
		line, err := s.in.ReadString('\n')
		if strings.TrimSpace(line) != "" {
			if quit := s.Exec(ctx, line); quit {
				return nil
			}
		}
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// Exec runs one command line and reports whether the shell should stop.
func (s *Shell) Exec(ctx context.Context, line string) bool {
	s.ctx = ctx
	args := strings.Fields(line)
	if len(args) == 0 {
		return false
	}
	cmd, args := strings.ToLower(args[0]), args[1:]

	switch cmd {
	case "search":
		keyword, category := arg(args, 0), arg(args, 1)
		s.page = "/"
		s.index.Search(ctx, keyword, category)
	case "more":
		if !s.index.HasMore() {
			fmt.Fprintln(s.out, "沒有更多景點了")
			return false
		}
		s.index.Scroll(ctx, true)
	case "mrts":
		if len(args) > 0 {
			s.page = "/"
			s.index.SelectMRT(ctx, strings.Join(args, " "))
			return false
		}
		if mrts, err := s.api.MRTs(ctx); err == nil {
			view.MRTs(view.NewRenderContext(s.out), mrts)
		} else {
			s.Alert(controller.MsgLoadFailed)
		}
	case "categories":
		s.index.OpenCategories(ctx)
	case "open":
		if len(args) != 1 {
			return s.usage("open <id>")
		}
		s.Navigate("/attraction/" + args[0])
	case "next", "prev":
		if !s.on("/attraction/") {
			return false
		}
		if cmd == "next" {
			s.attraction.Carousel(carousel.Next)
		} else {
			s.attraction.Carousel(carousel.Prev)
		}
	case "time":
		if len(args) != 1 || models.TripTime(args[0]).Price() == 0 {
			return s.usage("time morning|afternoon")
		}
		if s.on("/attraction/") {
			s.attraction.SelectTime(models.TripTime(args[0]))
		}
	case "book":
		if s.on("/attraction/") {
			s.attraction.Book(ctx, arg(args, 0))
			s.showDialog()
		}
	case "booking":
		s.auth.OpenBooking(ctx)
		s.showDialog()
	case "cancel":
		if s.on("/booking") {
			s.booking.Delete(ctx)
		}
	case "card":
		if len(args) != 3 {
			return s.usage("card <number> <MM/YY> <ccv>")
		}
		s.card.Set(args[0], args[1], args[2])
		if s.card.Ready() {
			fmt.Fprintf(s.out, "卡號 %s 已可付款\n", s.card.Masked())
		} else {
			fmt.Fprintf(s.out, "卡片資料有誤: %s\n", strings.Join(s.card.Invalid(), ", "))
		}
	case "pay":
		if len(args) != 3 {
			return s.usage("pay <name> <email> <phone>")
		}
		if s.on("/booking") {
			s.booking.Pay(ctx, models.Contact{Name: args[0], Email: args[1], Phone: args[2]})
			s.showDialog()
		}
	case "order":
		if len(args) != 1 {
			return s.usage("order <number>")
		}
		s.Navigate("/thankyou?number=" + url.QueryEscape(args[0]))
	case "login":
		if len(args) != 2 {
			return s.usage("login <email> <password>")
		}
		s.auth.Open()
		s.auth.Submit(ctx, auth.Fields{Email: args[0], Password: args[1]})
	case "signup":
		if len(args) != 3 {
			return s.usage("signup <name> <email> <password>")
		}
		s.auth.Open()
		s.auth.Toggle()
		s.auth.Submit(ctx, auth.Fields{Name: args[0], Email: args[1], Password: args[2]})
	case "logout":
		s.auth.Logout(ctx)
	case "whoami":
		s.whoami(ctx)
	case "status":
		report := s.reporter.Report(ctx)
		body, _ := json.MarshalIndent(report, "", "  ")
		fmt.Fprintln(s.out, string(body))
	case "help":
		fmt.Fprintln(s.out, helpText)
	case "quit", "exit":
		return true
	default:
		fmt.Fprintf(s.out, "unknown command %q, try help\n", cmd)
	}
	return false
}

// Navigate switches page and runs its controller's entry point.
func (s *Shell) Navigate(path string) {
	ctx := s.ctx
	s.page = path
	s.log.Debug("navigate", "path", path)

	switch {
	case path == "/":
		s.index.Init(ctx)
	case strings.HasPrefix(path, "/attraction/"):
		if err := s.attraction.Open(ctx, path); err == nil {
			s.attraction.Preload(ctx)
		}
	case path == "/booking":
		s.booking.Init(ctx)
	case strings.HasPrefix(path, "/thankyou"):
		number := ""
		if u, err := url.Parse(path); err == nil {
			number = u.Query().Get("number")
		}
		s.thankyou.Open(ctx, number)
	}
}

func (s *Shell) Alert(message string) {
	s.log.Debug("alert", "message", message)
}

// Confirm asks a y/N question on the same input the commands come from.
func (s *Shell) Confirm(ctx context.Context, message string) (bool, error) {
	fmt.Fprintf(s.out, "%s [y/N] ", message)
	line, err := s.in.ReadString('\n')
	if err != nil && line == "" {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func (s *Shell) Show() {
	fmt.Fprintln(s.out, "處理中...")
}

func (s *Shell) Hide() {}

func (s *Shell) reload() {
	s.auth.Navbar(s.ctx)
	if s.page != "" {
		s.Navigate(s.page)
	}
}

func (s *Shell) whoami(ctx context.Context) {
	claims, err := s.store.Claims(ctx)
	if err == nil && claims != nil && s.store.IsAuthenticated(ctx) {
		fmt.Fprintf(s.out, "%s <%s>，登入有效至 %s\n", claims.Name, claims.Email, claims.ExpiresAt.Format("2006-01-02 15:04"))
		return
	}
	user, err := s.dialog.Status(ctx)
	if err != nil || user == nil {
		fmt.Fprintln(s.out, "尚未登入")
		return
	}
	fmt.Fprintf(s.out, "%s <%s>\n", user.Name, user.Email)
}

func (s *Shell) showDialog() {
	if st := s.dialog.State(); st.Open {
		fmt.Fprintln(s.out, "請先登入: login <email> <password>")
	}
}

func (s *Shell) on(prefix string) bool {
	if strings.HasPrefix(s.page, prefix) {
		return true
	}
	fmt.Fprintf(s.out, "not on %s page\n", strings.TrimSuffix(prefix, "/"))
	return false
}

func (s *Shell) usage(u string) bool {
	fmt.Fprintf(s.out, "usage: %s\n", u)
	return false
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
