package main

import (
	"fmt"

	"github.com/eliteGoblin/focusd/keep_awake/internal/daemon"
	"github.com/eliteGoblin/focusd/keep_awake/internal/menu"
	"github.com/eliteGoblin/focusd/keep_awake/internal/usecase"
)

// agentController runs menu actions on the agent loop and waits for
// their result.
type agentController struct {
	agent *daemon.Agent
}

func newAgentController(agent *daemon.Agent) *agentController {
	return &agentController{agent: agent}
}

func (c *agentController) Perform(a menu.Action) error {
	result := make(chan error, 1)
	err := c.agent.Do(func(co *usecase.Coordinator) {
		result <- apply(co, a)
	})
	if err != nil {
		return err
	}

	select {
	case err := <-result:
		return err
	case <-c.agent.Done():
		return daemon.ErrAgentStopped
	}
}

func apply(co *usecase.Coordinator, a menu.Action) error {
	switch a {
	case menu.ToggleEnabled:
		co.ToggleEnabled()
		return nil
	case menu.ToggleFloating:
		return co.ToggleFloating()
	case menu.ToggleLaunchAtLogin:
		return co.ToggleLaunchAtLogin()
	default:
		return fmt.Errorf("unknown action: %s", a)
	}
}

var _ menu.Controller = (*agentController)(nil)
