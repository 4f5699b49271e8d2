package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/banachtech/sdepricer/config"
	"github.com/banachtech/sdepricer/report"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type priceResponse struct {
	RunID     string           `json:"run_id"`
	Scenario  string           `json:"scenario"`
	Model     string           `json:"model"`
	Scheme    string           `json:"scheme"`
	Payoff    string           `json:"payoff"`
	Price     decimal.Decimal  `json:"price"`
	StdErr    decimal.Decimal  `json:"std_error"`
	Reference *decimal.Decimal `json:"reference,omitempty"`
	Paths     int              `json:"paths"`
	Steps     int              `json:"steps"`
	Seed      *uint64          `json:"seed,omitempty"`
	ElapsedMs int64            `json:"elapsed_ms"`
}

func newPriceResponse(res report.Result) priceResponse {
	rsp := priceResponse{
		RunID:     res.RunID,
		Scenario:  res.Name,
		Model:     res.Model,
		Scheme:    res.Scheme,
		Payoff:    res.Payoff,
		Price:     report.Decimal(res.Price),
		StdErr:    report.Decimal(res.StdErr),
		Paths:     res.Paths,
		Steps:     res.Steps,
		Seed:      res.Seed,
		ElapsedMs: res.Elapsed.Milliseconds(),
	}
	if res.Reference != nil {
		ref := report.Decimal(*res.Reference)
		rsp.Reference = &ref
	}
	return rsp
}

func (server *Server) price(c *gin.Context) {
	var req config.Scenario
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	if req.Name == "" {
		req.Name = "adhoc"
	}
	server.run(c, req)
}

func (server *Server) listScenarios(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"scenarios": server.scenarios})
}

func (server *Server) runScenario(c *gin.Context) {
	sc, ok := config.FindScenario(server.scenarios, c.Param("name"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, errorResponse(fmt.Errorf("scenario %q not found", c.Param("name"))))
		return
	}

	if v := c.Query("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(fmt.Errorf("invalid seed: %w", err)))
			return
		}
		sc.Seed = &seed
	}
	for key, dst := range map[string]*int{"paths": &sc.Paths, "steps": &sc.Steps} {
		v := c.Query(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(fmt.Errorf("invalid %s: %w", key, err)))
			return
		}
		*dst = n
	}
	server.run(c, sc)
}

func (server *Server) run(c *gin.Context, sc config.Scenario) {
	if err := config.NewInputParser().Validate(&sc); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	if server.config.MaxWork > 0 && sc.Work() > server.config.MaxWork {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(fmt.Errorf("steps*paths = %d exceeds the limit of %d", sc.Work(), server.config.MaxWork)))
		return
	}

	res, err := server.runner.Run(c.Request.Context(), sc)
	if err != nil {
		server.metrics.failures.WithLabelValues(strings.ToLower(sc.Payoff.Type)).Inc()
		c.AbortWithStatusJSON(statusFor(err), errorResponse(err))
		return
	}

	server.metrics.observeRun(res)
	c.JSON(http.StatusOK, newPriceResponse(res))
}
