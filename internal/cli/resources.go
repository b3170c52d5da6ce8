package cli

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"

	"github.com/spf13/cobra"
)

// ============================================================
// Clientes
// ============================================================

func (a *app) customersCmd() *cobra.Command {
	var inactive bool
	var search string

	cmd := &cobra.Command{
		Use:     "customers",
		Aliases: []string{"clientes"},
		Short:   "List customers",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			path, q := "/v1/customers", url.Values{}
			if inactive {
				path = "/v1/customers/inactive"
			} else if search != "" {
				q.Set("q", search)
			}

			var customers []domain.Customer
			if err := c.Get(a.context(cmd), path, q, &customers); err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), customers, func(w io.Writer) error {
				if len(customers) == 0 {
					_, err := fmt.Fprintln(w, "Nenhum cliente encontrado.")
					return err
				}
				rows := make([][]string, 0, len(customers))
				for _, cu := range customers {
					rows = append(rows, []string{cu.ID, cu.Person.Name, cu.Person.Email, cu.City, string(cu.Status), strconv.Itoa(len(cu.Products))})
				}
				return table(w, []string{"ID", "NAME", "EMAIL", "CITY", "STATUS", "PRODUCTS"}, rows)
			})
		},
	}
	cmd.Flags().BoolVar(&inactive, "inactive", false, "list inactive customers")
	cmd.Flags().StringVarP(&search, "search", "q", "", "filter by name or e-mail")
	return cmd
}

// ============================================================
// Produtos
// ============================================================

func (a *app) productsCmd() *cobra.Command {
	var inactive bool
	var search string

	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"produtos"},
		Short:   "List products",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			path, q := "/v1/products", url.Values{}
			if inactive {
				path = "/v1/products/inactive"
			} else if search != "" {
				q.Set("q", search)
			}

			var products []domain.Product
			if err := c.Get(a.context(cmd), path, q, &products); err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), products, func(w io.Writer) error {
				rows := make([][]string, 0, len(products))
				for _, p := range products {
					rows = append(rows, []string{p.ID, p.Name, p.Price.String(), strconv.FormatBool(p.Active)})
				}
				return table(w, []string{"ID", "NAME", "PRICE", "ACTIVE"}, rows)
			})
		},
	}
	cmd.Flags().BoolVar(&inactive, "inactive", false, "list inactive products")
	cmd.Flags().StringVarP(&search, "search", "q", "", "filter by name")
	return cmd
}

// ============================================================
// Campanhas
// ============================================================

func (a *app) campaignsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "campaigns",
		Aliases: []string{"campanhas"},
		Short:   "List and manage campaigns",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			var campaigns []domain.Campaign
			if err := c.Get(a.context(cmd), "/v1/campaigns", nil, &campaigns); err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), campaigns, func(w io.Writer) error {
				rows := make([][]string, 0, len(campaigns))
				for _, cp := range campaigns {
					rows = append(rows, []string{cp.ID, truncate(cp.Title, 40), cp.CampaignType, cp.EndDate, strconv.FormatBool(cp.Active)})
				}
				return table(w, []string{"ID", "TITLE", "TYPE", "ENDS", "ACTIVE"}, rows)
			})
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Activate or pause a campaign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			var cp domain.Campaign
			if err := c.Post(a.context(cmd), "/v1/campaigns/"+url.PathEscape(args[0])+"/toggle", nil, &cp); err != nil {
				return err
			}
			state := "pausada"
			if cp.Active {
				state = "ativa"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Campanha %q agora está %s.\n", cp.Title, state)
			return nil
		},
	}

	var vars []string
	preview := &cobra.Command{
		Use:   "preview <id>",
		Short: "Render the campaign message",
		Long: `Render the message template of a campaign.

Examples:
  feedtrackctl campaigns preview camp-001 --var nome=Maria --var produto="Smartphone X"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := make(map[string]string, len(vars))
			for _, kv := range vars {
				k, v, ok := strings.Cut(kv, "=")
				if !ok {
					return fmt.Errorf("invalid --var %q: want key=value", kv)
				}
				values[strings.TrimSpace(k)] = v
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			var out struct {
				Message string `json:"message"`
			}
			if err := c.Post(a.context(cmd), "/v1/campaigns/"+url.PathEscape(args[0])+"/preview", map[string]any{"vars": values}, &out); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.Message)
			return nil
		},
	}
	preview.Flags().StringArrayVar(&vars, "var", nil, "template variable as key=value (repeatable)")

	cmd.AddCommand(toggle, preview)
	return cmd
}

// ============================================================
// Feedbacks
// ============================================================

type feedbackFlags struct {
	search, category, from, to string
	rating                     int
}

func (f *feedbackFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.search, "search", "q", "", "search customer, product, employee or comment")
	cmd.Flags().StringVar(&f.category, "category", "", "SERVICE, PRODUCT, COMPANY or the label")
	cmd.Flags().IntVar(&f.rating, "rating", 0, "exact rating (1-5)")
	cmd.Flags().StringVar(&f.from, "from", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "last day (YYYY-MM-DD)")
}

func (f *feedbackFlags) query() url.Values {
	q := url.Values{}
	if f.search != "" {
		q.Set("q", f.search)
	}
	if f.category != "" {
		q.Set("category", f.category)
	}
	if f.rating > 0 {
		q.Set("rating", strconv.Itoa(f.rating))
	}
	if f.from != "" {
		q.Set("from", f.from)
	}
	if f.to != "" {
		q.Set("to", f.to)
	}
	return q
}

func (a *app) feedbacksCmd() *cobra.Command {
	var filters feedbackFlags
	var page int

	cmd := &cobra.Command{
		Use:   "feedbacks",
		Short: "List feedbacks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			q := filters.query()
			q.Set("page", strconv.Itoa(page))

			var result domain.Page[domain.FeedbackEntry]
			if err := c.Get(a.context(cmd), "/v1/feedbacks", q, &result); err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), result, func(w io.Writer) error {
				rows := make([][]string, 0, len(result.Items))
				for _, e := range result.Items {
					rows = append(rows, []string{e.Date, e.CustomerName, e.ProductName, strconv.Itoa(e.Rating), e.CategoryLabel, truncate(e.Comment, 40)})
				}
				if err := table(w, []string{"DATE", "CUSTOMER", "PRODUCT", "RATING", "CATEGORY", "COMMENT"}, rows); err != nil {
					return err
				}
				_, err := fmt.Fprintf(w, "\nPágina %d de %d (%d feedbacks)\n", result.Page, result.TotalPages, result.Total)
				return err
			})
		},
	}
	filters.register(cmd)
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	return cmd
}

// ============================================================
// Relatórios
// ============================================================

func (a *app) reportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reports",
		Aliases: []string{"relatorios"},
		Short:   "Dashboard reports (admin and master only)",
	}

	overview := &cobra.Command{
		Use:   "overview",
		Short: "Totals, average rating and sentiment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			var o domain.ReportOverview
			if err := c.Get(a.context(cmd), "/v1/reports/overview", nil, &o); err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), o, func(w io.Writer) error {
				fmt.Fprintf(w, "Feedbacks:          %d\n", o.TotalFeedbacks)
				fmt.Fprintf(w, "Nota média:         %.2f\n", o.AverageRating)
				fmt.Fprintf(w, "Taxa de resposta:   %.2f%%\n", o.ResponseRate)
				fmt.Fprintf(w, "Clientes ativos:    %d\n", o.ActiveCustomers)
				fmt.Fprintf(w, "Produtos ativos:    %d\n", o.ActiveProducts)
				fmt.Fprintf(w, "Campanhas ativas:   %d\n", o.ActiveCampaigns)
				_, err := fmt.Fprintf(w, "Sentimento:         %d positivos / %d neutros / %d negativos\n",
					o.Sentiment.Positive, o.Sentiment.Neutral, o.Sentiment.Negative)
				return err
			})
		},
	}

	var limit int
	top := &cobra.Command{
		Use:   "top-products",
		Short: "Best rated products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			var scores []domain.ProductScore
			if err := c.Get(a.context(cmd), "/v1/reports/top-products", url.Values{"limit": {strconv.Itoa(limit)}}, &scores); err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), scores, func(w io.Writer) error {
				rows := make([][]string, 0, len(scores))
				for _, s := range scores {
					rows = append(rows, []string{s.ProductName, fmt.Sprintf("%.2f", s.AverageRating), strconv.Itoa(s.Count)})
				}
				return table(w, []string{"PRODUCT", "AVERAGE", "FEEDBACKS"}, rows)
			})
		},
	}
	top.Flags().IntVar(&limit, "limit", 5, "number of products")

	var filters feedbackFlags
	var file string
	export := &cobra.Command{
		Use:   "export",
		Short: "Export the filtered feedback list as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if file != "" && file != "-" {
				f, err := os.Create(file)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return c.Download(a.context(cmd), "/v1/reports/export.csv", filters.query(), w)
		},
	}
	filters.register(export)
	export.Flags().StringVarP(&file, "file", "f", "", "write to file instead of stdout")

	cmd.AddCommand(overview, top, export)
	return cmd
}

// ============================================================
// Status e notificações
// ============================================================

type resourceReport struct {
	Ready     bool                    `json:"ready" yaml:"ready"`
	Breaker   string                  `json:"breaker" yaml:"breaker"`
	Resources []domain.ResourceStatus `json:"resources" yaml:"resources"`
}

func (a *app) statusCmd() *cobra.Command {
	var reload bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the state of every cached collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			var rep resourceReport
			if reload {
				err = c.Post(a.context(cmd), "/v1/resources/reload", nil, &rep)
			} else {
				err = c.Get(a.context(cmd), "/v1/resources/status", nil, &rep)
			}
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), rep, func(w io.Writer) error {
				rows := make([][]string, 0, len(rep.Resources))
				for _, r := range rep.Resources {
					rows = append(rows, []string{r.Name, r.State, strconv.Itoa(r.Count), r.LastError})
				}
				if err := table(w, []string{"COLLECTION", "STATE", "COUNT", "LAST ERROR"}, rows); err != nil {
					return err
				}
				_, err := fmt.Fprintf(w, "\nready=%t breaker=%s\n", rep.Ready, rep.Breaker)
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&reload, "reload", false, "refetch every collection first (admin and master only)")
	return cmd
}

func (a *app) notificationsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Show recent notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			var notes []domain.Notification
			if err := c.Get(a.context(cmd), "/v1/notifications", url.Values{"limit": {strconv.Itoa(limit)}}, &notes); err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), notes, func(w io.Writer) error {
				rows := make([][]string, 0, len(notes))
				for _, n := range notes {
					rows = append(rows, []string{n.CreatedAt.Local().Format("02/01 15:04"), string(n.Level), n.Resource, n.Message})
				}
				return table(w, []string{"WHEN", "LEVEL", "RESOURCE", "MESSAGE"}, rows)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum notifications")
	return cmd
}
