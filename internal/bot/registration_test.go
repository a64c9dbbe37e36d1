package bot

import (
	"testing"

	"inversiones-bot/internal/services"
)

func TestWizardStepOrder(t *testing.T) {
	order := []struct {
		state State
		field string
	}{
		{StateAwaitingName, "nombre"},
		{StateAwaitingPhone, "telefono"},
		{StateAwaitingID, "cedula"},
		{StateAwaitingPaymentAccount, "nequi"},
	}

	profiles := services.NewProfileService(nil)

	state := order[0].state
	for i, want := range order {
		if state != want.state {
			t.Fatalf("step %d reached state %d, want %d", i, state, want.state)
		}

		step, ok := wizardSteps[state]
		if !ok {
			t.Fatalf("no wizard step for state %d", state)
		}
		if step.field != want.field {
			t.Errorf("step %d fills %q, want %q", i, step.field, want.field)
		}
		if !profiles.ValidField(step.field) {
			t.Errorf("wizard field %q is not an updatable profile field", step.field)
		}

		if i < len(order)-1 {
			if step.prompt == "" {
				t.Errorf("step %d must prompt for the next value", i)
			}
		} else if step.next != 0 {
			t.Error("the last wizard step must terminate the flow")
		}

		state = step.next
	}
}
