package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"braces.dev/errtrace"
	"gopkg.in/yaml.v3"

	"github.com/ghettovoice/uritools/internal/errorutil"
	"github.com/ghettovoice/uritools/uri"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func parseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "", formatText:
		return formatText, nil
	case formatJSON, formatYAML:
		return f, nil
	default:
		return "", errtrace.Wrap(errorutil.NewInvalidArgumentError("unknown output format %q", s))
	}
}

// texter is implemented by results with a multi-field text form.
type texter interface {
	Text() string
}

type printer struct {
	w      io.Writer
	format string
	docs   int
}

func (p *printer) print(v any) error {
	switch p.format {
	case formatJSON:
		return errtrace.Wrap(json.NewEncoder(p.w).Encode(v))
	case formatYAML:
		b, err := yaml.Marshal(v)
		if err != nil {
			return errtrace.Wrap(err)
		}
		if p.docs > 0 {
			if _, err := io.WriteString(p.w, "---\n"); err != nil {
				return errtrace.Wrap(err)
			}
		}
		p.docs++
		_, err = p.w.Write(b)
		return errtrace.Wrap(err)
	default:
		var s string
		switch v := v.(type) {
		case texter:
			s = v.Text()
		case fmt.Stringer:
			s = v.String()
		default:
			s = fmt.Sprint(v)
		}
		_, err := fmt.Fprintln(p.w, s)
		return errtrace.Wrap(err)
	}
}

// scalarOutput is the result of the commands that map one string to another.
type scalarOutput struct {
	Input  string `json:"input" yaml:"input"`
	Output string `json:"output" yaml:"output"`
}

func (o scalarOutput) Text() string { return o.Output }

type splitOutput struct {
	URI       string         `json:"uri" yaml:"uri"`
	Scheme    *string        `json:"scheme" yaml:"scheme"`
	Authority *string        `json:"authority" yaml:"authority"`
	Userinfo  *string        `json:"userinfo" yaml:"userinfo"`
	Host      *string        `json:"host" yaml:"host"`
	Port      *string        `json:"port" yaml:"port"`
	Path      string         `json:"path" yaml:"path"`
	Query     *string        `json:"query" yaml:"query"`
	Fragment  *string        `json:"fragment" yaml:"fragment"`
	Decoded   *decodedOutput `json:"decoded,omitempty" yaml:"decoded,omitempty"`
}

type decodedOutput struct {
	Scheme   *string      `json:"scheme" yaml:"scheme"`
	Userinfo *string      `json:"userinfo" yaml:"userinfo"`
	HostKind string       `json:"host_kind" yaml:"host_kind"`
	Host     *string      `json:"host" yaml:"host"`
	Port     *int         `json:"port" yaml:"port"`
	Path     string       `json:"path" yaml:"path"`
	Query    []queryParam `json:"query" yaml:"query"`
	Fragment *string      `json:"fragment" yaml:"fragment"`
}

type queryParam struct {
	Key   string  `json:"key" yaml:"key"`
	Value *string `json:"value" yaml:"value"`
}

func newSplitOutput(r uri.SplitResult[string]) *splitOutput {
	return &splitOutput{
		URI:       r.URI(),
		Scheme:    partPtr(r.Scheme()),
		Authority: partPtr(r.Authority()),
		Userinfo:  partPtr(r.Userinfo()),
		Host:      partPtr(r.Host()),
		Port:      partPtr(r.Port()),
		Path:      r.Path(),
		Query:     partPtr(r.Query()),
		Fragment:  partPtr(r.Fragment()),
	}
}

func newDecodedOutput(r uri.SplitResult[string], opts []uri.Option) (*decodedOutput, error) {
	var (
		o   decodedOutput
		err error
	)
	if r.Scheme().Valid {
		s := r.GetScheme("")
		o.Scheme = &s
	}

	var p uri.Part[string]
	if p, err = r.GetUserinfo(opts...); err != nil {
		return nil, errtrace.Wrap(err)
	}
	o.Userinfo = partPtr(p)

	host, err := r.GetHost(opts...)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	o.HostKind = host.Kind().String()
	if host.IsValid() {
		s := host.String()
		o.Host = &s
	}

	if !r.Port().IsEmpty() {
		port, err := r.GetPort(0)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		o.Port = &port
	}

	if o.Path, err = r.GetPath(opts...); err != nil {
		return nil, errtrace.Wrap(err)
	}

	l, err := r.GetQueryList(opts...)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	o.Query = make([]queryParam, 0, len(l))
	for _, item := range l {
		o.Query = append(o.Query, queryParam{Key: item.Key, Value: partPtr(item.Value)})
	}

	if p, err = r.GetFragment(opts...); err != nil {
		return nil, errtrace.Wrap(err)
	}
	o.Fragment = partPtr(p)
	return &o, nil
}

func (o *splitOutput) Text() string {
	var sb strings.Builder
	field := func(name string, v *string) {
		sb.WriteString(name)
		sb.WriteString(": ")
		if v == nil {
			sb.WriteString("<none>")
		} else {
			sb.WriteString(strconv.Quote(*v))
		}
		sb.WriteByte('\n')
	}

	field("uri", &o.URI)
	field("scheme", o.Scheme)
	field("authority", o.Authority)
	field("userinfo", o.Userinfo)
	field("host", o.Host)
	field("port", o.Port)
	field("path", &o.Path)
	field("query", o.Query)
	field("fragment", o.Fragment)
	if d := o.Decoded; d != nil {
		field("decoded.scheme", d.Scheme)
		field("decoded.userinfo", d.Userinfo)
		field("decoded.host_kind", &d.HostKind)
		field("decoded.host", d.Host)
		if d.Port != nil {
			port := strconv.Itoa(*d.Port)
			field("decoded.port", &port)
		} else {
			field("decoded.port", nil)
		}
		field("decoded.path", &d.Path)
		for _, q := range d.Query {
			field("decoded.query."+q.Key, q.Value)
		}
		field("decoded.fragment", d.Fragment)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

type defragOutput struct {
	URI      string  `json:"uri" yaml:"uri"`
	Base     string  `json:"base" yaml:"base"`
	Fragment *string `json:"fragment" yaml:"fragment"`
}

func (o defragOutput) Text() string {
	if o.Fragment == nil {
		return o.Base
	}
	return o.Base + "\t" + *o.Fragment
}

func partPtr(p uri.Part[string]) *string {
	if !p.Valid {
		return nil
	}
	v := p.Val
	return &v
}
