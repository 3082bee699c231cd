package handler

import (
	"fmt"
	"strings"

	"github.com/evisdrenova/zonaei-skill/internal/catalog"
	"github.com/evisdrenova/zonaei-skill/internal/session"
)

const (
	welcomeSpeech = "¡Hola! Bienvenido a la Zona Ei. Estoy aquí para apoyarte a conocer más sobre " +
		"programas de emprendimiento en el Tec y sus proyectos participantes. ¿Qué deseas saber?"

	programsIntroSpeech = "Existen 3 programas para emprendedores, los cuáles te pueden ayudar a validar. " +
		"desarrollar. o crecer tu idea de negocio. ¿Cuál de las 3 opciones te gustaría explorar?"

	projectsIntroSpeech = "Los proyectos inscritos en programas de emprendimiento se dividen por 3 etapas " +
		"de negocio: Validación. desarrollo. y crecimiento. ¿Qué tipo de proyectos te gustaría conocer?"

	noProgramSpeech  = "No tengo información de este programa. "
	noProjectsSpeech = "No tenemos proyectos relacionados a este programa. "
	noProjectSpeech  = "No tengo información de este proyecto. ¿Qué otro proyecto te gustaría conocer?"
	moreProjectsAsk  = "¿Te interesa conocer más de alguno de los proyectos?"

	anythingElseAsk = "¿Hay algo más en lo que pueda ayudarte?"
	whatNextSpeech  = "Perfecto, ¿Qué deseas saber?"
	goodbyeSpeech   = "Adios. Ojalá te haya sido de ayuda"
	farewellSpeech  = "Muchas gracias por visitar la Zona Ei ¡Regresa pronto!"

	fallbackSpeech = "No estoy segura de haber entendido. Puedo contarte sobre los programas de " +
		"emprendimiento o sobre los proyectos que participan en ellos. ¿Qué deseas saber?"

	apologySpeech = "Perdón no pude hacer lo que me pediste, intentalo de nuevo"
)

func programSpeech(name string, p *catalog.Program) string {
	return fmt.Sprintf("El programa %s %s. ¿Te interesa saber cómo inscribirte, o te gustaría "+
		"conocer los proyectos inscritos al programa?", name, p.Description)
}

// projectListSpeech lists the projects enrolled in a program:
// "Para el programa Tec Lean Discover tenemos a los proyectos: A, B, C."
func projectListSpeech(program string, projects []catalog.Project) string {
	switch len(projects) {
	case 0:
		return noProjectsSpeech
	case 1:
		return fmt.Sprintf("Para el programa %s tenemos a %s. %s", program, projects[0].Name, moreProjectsAsk)
	}
	names := make([]string, 0, len(projects))
	for _, p := range projects {
		names = append(names, p.Name)
	}
	return fmt.Sprintf("Para el programa %s tenemos a los proyectos: %s. %s",
		program, strings.Join(names, ", "), moreProjectsAsk)
}

func projectSpeech(p *catalog.Project) string {
	if p == nil {
		return noProjectSpeech
	}
	return fmt.Sprintf("%s es un proyecto enfocado a %s. ¿Te interesa hacer contacto con ellos?", p.Name, p.Description)
}

func inscriptionSpeech(program, email string) string {
	target := "a un programa"
	if program != "" {
		target = "al programa " + program
	}
	return fmt.Sprintf("Para inscribirte %s, necesitas mandar una carta de motivos y una descripción "+
		"de tu idea de negocio al correo %s. %s", target, email, anythingElseAsk)
}

func contactSpeech(project string) string {
	if project == "" {
		return "Puedes encontrar a los equipos en nuestras sesiones mensuales de networking. " + anythingElseAsk
	}
	return fmt.Sprintf("Puedes encontrar al equipo de %s en nuestras sesiones mensuales de networking "+
		"o contactarlos en el correo de contacto@%s.com. %s", project, project, anythingElseAsk)
}

func helpSpeech(state session.AppState) string {
	switch state {
	case session.ProgramsQueryStart:
		return "Puedes preguntarme acerca de todos los programas que tenemos. " +
			"También puedo decirte como puedes involucrarte con nosotros. " +
			"O puedo decirte acerca de los proyectos en los cuales se están trabajando actualmente. "
	case session.SingleProgramQuery:
		return "Puedes preguntarme de los proyectos a los cuales puedes inscribirte. " +
			"También puedo decirte como puedes involucrarte con nosotros. "
	case session.ProgramInterestQuery:
		return "Puedes preguntar acerca de los demás programas que tenemos. " +
			"También puedes preguntarme acerca de los grupos que actualmente están en desarrollo"
	default:
		return "Te puedo dar información acerca de los programas que soportamos. " +
			"Y te puedo dar información acerca de los proyectos actualmente en desarrollo"
	}
}
