package gremlin

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/samsarahq/go/oops"

	"github.com/warpgraph/warpgraph/wgerr"
)

const mimeType = "application/vnd.gremlin-v2.0+json"

// conn is one websocket connection to a Gremlin server.
type conn struct {
	ws   *websocket.Conn
	user string
	pass string
}

func dial(ctx context.Context, addr, user, pass string) (*conn, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, "ws://"+addr+"/gremlin", nil)
	if err != nil {
		return nil, wgerr.Wrap(err, wgerr.CouldNotBuildPool, addr)
	}
	return &conn{ws: ws, user: user, pass: pass}, nil
}

func (c *conn) close() error {
	return c.ws.Close()
}

type responseStatus struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type responseResult struct {
	Data interface{} `json:"data"`
}

type response struct {
	RequestID interface{}    `json:"requestId"`
	Status    responseStatus `json:"status"`
	Result    responseResult `json:"result"`
}

// submit evaluates a traversal with bindings and accumulates the streamed
// result items, already unwrapped from GraphSON.
func (c *conn) submit(gremlin string, bindings map[string]interface{}) ([]interface{}, error) {
	wrapped := make(map[string]interface{}, len(bindings))
	for k, v := range bindings {
		wrapped[k] = toGraphSON(v)
	}

	if err := c.write(map[string]interface{}{
		"requestId": map[string]interface{}{"@type": "g:UUID", "@value": uuid.NewString()},
		"op":        "eval",
		"processor": "",
		"args": map[string]interface{}{
			"gremlin":  gremlin,
			"bindings": wrapped,
			"language": "gremlin-groovy",
		},
	}); err != nil {
		return nil, err
	}

	var items []interface{}
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			return nil, wgerr.Wrap(err, wgerr.Backend, "")
		}
		var resp response
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, oops.Wrapf(err, "gremlin response")
		}

		switch resp.Status.Code {
		case 407:
			// SASL PLAIN challenge.
			sasl := base64.StdEncoding.EncodeToString(
				[]byte(fmt.Sprintf("\x00%s\x00%s", c.user, c.pass)))
			if err := c.write(map[string]interface{}{
				"requestId": map[string]interface{}{"@type": "g:UUID", "@value": uuid.NewString()},
				"op":        "authentication",
				"processor": "",
				"args":      map[string]interface{}{"sasl": sasl},
			}); err != nil {
				return nil, err
			}
		case 204:
			return items, nil
		case 200, 206:
			chunk, err := fromGraphSON(resp.Result.Data)
			if err != nil {
				return nil, err
			}
			if list, ok := chunk.([]interface{}); ok {
				items = append(items, list...)
			} else if chunk != nil {
				items = append(items, chunk)
			}
			if resp.Status.Code == 200 {
				return items, nil
			}
		default:
			return nil, wgerr.NewDetail(wgerr.Backend, "",
				fmt.Sprintf("gremlin status %d: %s", resp.Status.Code, resp.Status.Message))
		}
	}
}

func (c *conn) write(payload map[string]interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return oops.Wrapf(err, "gremlin request")
	}
	frame := make([]byte, 0, 1+len(mimeType)+len(body))
	frame = append(frame, byte(len(mimeType)))
	frame = append(frame, mimeType...)
	frame = append(frame, body...)
	if err := c.ws.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		return wgerr.Wrap(err, wgerr.Backend, "")
	}
	return nil
}
