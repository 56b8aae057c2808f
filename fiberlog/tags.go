package fiberlog

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Tag names available for Config.Tags
const (
	TagPid       = "pid"
	TagStatus    = "status"
	TagLatency   = "latency"
	TagMethod    = "method"
	TagPath      = "path"
	TagIP        = "ip"
	TagHost      = "host"
	TagUA        = "ua"
	TagReferer   = "referer"
	TagProtocol  = "protocol"
	TagBody      = "body"
	TagResBody   = "res_body"
	RequestID    = "request_id"
)

type data struct {
	pid   int
	start time.Time
	end   time.Time
}

// FuncTag returns the value of a tag for the current request
type FuncTag func(c *fiber.Ctx, d *data) interface{}

func getFuncTagMap(cfg Config, d *data) map[string]FuncTag {
	all := map[string]FuncTag{
		TagPid: func(c *fiber.Ctx, d *data) interface{} {
			return d.pid
		},
		TagStatus: func(c *fiber.Ctx, d *data) interface{} {
			return c.Response().StatusCode()
		},
		TagLatency: func(c *fiber.Ctx, d *data) interface{} {
			return d.end.Sub(d.start).String()
		},
		TagMethod: func(c *fiber.Ctx, d *data) interface{} {
			return c.Method()
		},
		TagPath: func(c *fiber.Ctx, d *data) interface{} {
			return c.Path()
		},
		TagIP: func(c *fiber.Ctx, d *data) interface{} {
			return c.IP()
		},
		TagHost: func(c *fiber.Ctx, d *data) interface{} {
			return c.Hostname()
		},
		TagUA: func(c *fiber.Ctx, d *data) interface{} {
			return string(c.Request().Header.UserAgent())
		},
		TagReferer: func(c *fiber.Ctx, d *data) interface{} {
			return string(c.Request().Header.Referer())
		},
		TagProtocol: func(c *fiber.Ctx, d *data) interface{} {
			return c.Protocol()
		},
		TagBody: func(c *fiber.Ctx, d *data) interface{} {
			return string(c.Body())
		},
		TagResBody: func(c *fiber.Ctx, d *data) interface{} {
			return string(c.Response().Body())
		},
		RequestID: func(c *fiber.Ctx, d *data) interface{} {
			return string(c.Response().Header.Peek(fiber.HeaderXRequestID))
		},
	}
	ftm := make(map[string]FuncTag, len(cfg.Tags))
	for _, tag := range cfg.Tags {
		if ft, exist := all[tag]; exist {
			ftm[tag] = ft
		}
	}
	return ftm
}
